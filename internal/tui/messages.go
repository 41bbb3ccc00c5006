package tui

import (
	"github.com/Veraticus/shop-diary/internal/model"
	"github.com/Veraticus/shop-diary/internal/purchase"
)

// Data loading messages.
type dataLoadedMsg struct {
	err   error
	items []model.Item
	shops []model.Shop
}

// Commit messages.
type commitDoneMsg struct {
	err    error
	result *purchase.Result
}
