package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/Veraticus/shop-diary/internal/cache"
	"github.com/Veraticus/shop-diary/internal/common"
	"github.com/Veraticus/shop-diary/internal/model"
	"github.com/Veraticus/shop-diary/internal/purchase"
	"github.com/Veraticus/shop-diary/internal/storage"
	tuitest "github.com/Veraticus/shop-diary/internal/tui/testing"
	"github.com/Veraticus/shop-diary/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

type failingCommitter struct {
	err   error
	calls int
}

func (f *failingCommitter) Commit(context.Context, purchase.Candidate) (*purchase.Result, error) {
	f.calls++
	return nil, f.err
}

func newTestEntry(t *testing.T, committer Committer) (*EntryModel, *storage.MockStorage) {
	t.Helper()
	store := storage.NewMockStorage()
	store.Seed([]model.Item{
		{ID: "item_1", Name: "Sugar", Unit: "kg", LastPrice: ptr(40.0)},
		{ID: "item_2", Name: "Brown Sugar", Unit: "kg"},
	}, []model.Shop{{ID: "shop_1", Name: "Siva Traders"}}, nil)

	catalog := purchase.NewCatalog(store, cache.New())
	if committer == nil {
		committer = purchase.NewRecorder(store, catalog)
	}
	m := NewEntryModel(context.Background(), committer, catalog, themes.Default)

	msg := m.loadData()()
	m.Update(msg)
	return m, store
}

func typeText(m *EntryModel, text string) {
	tuitest.NewInputSequence().Type(text).Apply(m)
}

func press(m *EntryModel, keyType tea.KeyType) tea.Cmd {
	_, cmd := tuitest.NewInputSequence().Press(keyType).Apply(m)
	return cmd
}

func TestEntryModel_Suggestions(t *testing.T) {
	m, _ := newTestEntry(t, nil)

	typeText(m, "sug")
	assert.Equal(t, "sug", m.Form().ItemText())
	assert.Len(t, m.itemSuggestions(), 2)

	press(m, tea.KeyDown)
	press(m, tea.KeyEnter)

	selected := m.Form().SelectedItem()
	require.NotNil(t, selected)
	assert.Equal(t, "item_2", selected.ID)
	assert.Equal(t, "Brown Sugar", m.inputs[fieldItem].Value())
	assert.Equal(t, fieldPrice, m.focus, "focus moves on after picking")

	// Editing the item text again drops the binding
	press(m, tea.KeyShiftTab)
	typeText(m, "x")
	assert.Nil(t, m.Form().SelectedItem())
}

func TestEntryModel_RequiredFields(t *testing.T) {
	committer := &failingCommitter{}
	m, _ := newTestEntry(t, committer)

	cmd := press(m, tea.KeyCtrlS)
	assert.Nil(t, cmd)
	assert.Equal(t, common.MsgRequiredFields, m.Status())
	assert.Zero(t, committer.calls)
	assert.False(t, m.Saving())
}

func TestEntryModel_SubmitFlow(t *testing.T) {
	m, store := newTestEntry(t, nil)

	typeText(m, "Sugar")
	press(m, tea.KeyEnter) // picks Sugar
	typeText(m, "45")
	assert.Equal(t, purchase.FormatAmount(45), purchase.FormatAmount(m.Form().TotalCost()))
	assert.Equal(t, model.TrendIncrease, m.Form().Trend())
	assert.Contains(t, m.View(), "▲ +₹5.00")

	cmd := press(m, tea.KeyCtrlS)
	require.NotNil(t, cmd)
	assert.True(t, m.Saving())

	// Submitting again while saving does nothing
	assert.Nil(t, press(m, tea.KeyCtrlS))

	msg := cmd()
	_, reload := m.Update(msg)
	require.NotNil(t, reload)
	assert.False(t, m.Saving())
	assert.Contains(t, m.Status(), "Saved Sugar")
	require.NotNil(t, m.LastResult())
	assert.Equal(t, model.TrendIncrease, m.LastResult().Transaction.PriceTrend)

	// Form is cleared on success
	assert.Empty(t, m.Form().ItemText())
	assert.Equal(t, "1", m.inputs[fieldQuantity].Value())
	assert.Equal(t, fieldItem, m.focus)

	assert.Equal(t, []string{"UpdateItem", "CreateTransaction"}, store.WriteCalls())

	m.Update(reload())
	assert.InDelta(t, 45.0, *m.items[0].LastPrice, 1e-9, "reloaded after invalidation")
}

func TestEntryModel_IgnoresEditsWhileSaving(t *testing.T) {
	m, store := newTestEntry(t, nil)

	typeText(m, "Sugar")
	press(m, tea.KeyEnter)
	typeText(m, "45")
	focus := m.focus

	cmd := press(m, tea.KeyCtrlS)
	require.NotNil(t, cmd)
	require.True(t, m.Saving())

	typeText(m, "9")
	assert.Nil(t, press(m, tea.KeyCtrlR), "clear ignored")
	press(m, tea.KeyTab)
	assert.Equal(t, "45", m.Form().PriceText())
	assert.Equal(t, "45", m.inputs[fieldPrice].Value())
	assert.Equal(t, "Sugar", m.Form().ItemText())
	assert.Equal(t, focus, m.focus)

	quit := press(m, tea.KeyEsc)
	require.NotNil(t, quit, "quit still works")
	assert.Equal(t, tea.QuitMsg{}, quit())

	m.Update(cmd())
	assert.False(t, m.Saving())
	require.NotNil(t, m.LastResult())
	assert.InDelta(t, 45.0, m.LastResult().Transaction.PricePerUnit, 1e-9)
	assert.Equal(t, []string{"UpdateItem", "CreateTransaction"}, store.WriteCalls())
}

func TestEntryModel_SaveFailureKeepsForm(t *testing.T) {
	committer := &failingCommitter{err: &common.CommitError{Step: common.StepItem, Err: errors.New("disk full")}}
	m, _ := newTestEntry(t, committer)

	typeText(m, "Rice")
	press(m, tea.KeyTab)
	typeText(m, "60")

	cmd := press(m, tea.KeyCtrlS)
	require.NotNil(t, cmd)
	m.Update(cmd())

	assert.Equal(t, common.MsgSaveFailed, m.Status())
	assert.Equal(t, "Rice", m.Form().ItemText(), "form kept for retry")
	assert.Equal(t, "60", m.Form().PriceText())
	assert.Equal(t, 1, committer.calls)
	assert.Contains(t, m.View(), common.MsgSaveFailed)
}

func TestEntryModel_NewShopOnEnter(t *testing.T) {
	m, store := newTestEntry(t, nil)

	typeText(m, "Jaggery")
	press(m, tea.KeyTab)
	typeText(m, "70")
	press(m, tea.KeyTab)
	press(m, tea.KeyTab)
	press(m, tea.KeyTab)
	require.Equal(t, fieldShop, m.focus)
	typeText(m, "Corner Shop")

	cmd := press(m, tea.KeyEnter)
	require.NotNil(t, cmd, "enter on the last field submits")
	m.Update(cmd())

	assert.Equal(t, []string{"CreateItem", "CreateShop", "CreateTransaction"}, store.WriteCalls())
}

func TestEntryModel_Quit(t *testing.T) {
	m, _ := newTestEntry(t, nil)

	cmd := press(m, tea.KeyEsc)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestEntryModel_View(t *testing.T) {
	m, _ := newTestEntry(t, nil)
	view := m.View()
	assert.Contains(t, view, "Add Purchase")
	assert.Contains(t, view, "Total: ₹0.00")

	typeText(m, "Sugar")
	press(m, tea.KeyEnter)
	view = tuitest.StripANSI(m.View())
	assert.Contains(t, view, "Last purchase: ₹40.00 / kg")
	assert.True(t, tuitest.ContainsInOrder(view, "Item", "Price", "Quantity", "Shop"), view)
}
