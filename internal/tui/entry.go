// Package tui implements the interactive purchase entry form.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/shop-diary/internal/common"
	"github.com/Veraticus/shop-diary/internal/model"
	"github.com/Veraticus/shop-diary/internal/purchase"
	"github.com/Veraticus/shop-diary/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Committer saves a purchase.
type Committer interface {
	Commit(ctx context.Context, c purchase.Candidate) (*purchase.Result, error)
}

// Lister provides the records suggestions are drawn from.
type Lister interface {
	Items(ctx context.Context) ([]model.Item, error)
	Shops(ctx context.Context) ([]model.Shop, error)
}

// Field indexes in tab order.
const (
	fieldItem = iota
	fieldPrice
	fieldQuantity
	fieldUnit
	fieldShop
	fieldCount
)

const maxSuggestions = 5

var fieldLabels = [fieldCount]string{"Item", "Price", "Quantity", "Unit", "Shop"}

// EntryModel is the bubbletea model of the purchase entry form.
type EntryModel struct {
	ctx       context.Context
	committer Committer
	lister    Lister
	err       error
	now       func() time.Time
	form      *purchase.Form
	last      *purchase.Result
	keys      KeyMap
	status    string
	items     []model.Item
	shops     []model.Shop
	inputs    [fieldCount]textinput.Model
	help      help.Model
	theme     themes.Theme
	focus     int
	cursor    int
	saving    bool
}

// NewEntryModel creates the entry form.
func NewEntryModel(ctx context.Context, committer Committer, lister Lister, theme themes.Theme) *EntryModel {
	m := &EntryModel{
		ctx:       ctx,
		committer: committer,
		lister:    lister,
		form:      purchase.NewForm(),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		theme:     theme,
		now:       time.Now,
	}

	placeholders := [fieldCount]string{"Sugar", "40.00", "1", "kg", "optional"}
	for i := range m.inputs {
		input := textinput.New()
		input.Placeholder = placeholders[i]
		input.CharLimit = 64
		input.Prompt = ""
		m.inputs[i] = input
	}
	m.inputs[fieldItem].Focus()
	m.syncInputs()

	return m
}

// Init loads the item and shop lists.
func (m *EntryModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadData())
}

func (m *EntryModel) loadData() tea.Cmd {
	return func() tea.Msg {
		items, err := m.lister.Items(m.ctx)
		if err != nil {
			return dataLoadedMsg{err: err}
		}
		shops, err := m.lister.Shops(m.ctx)
		if err != nil {
			return dataLoadedMsg{err: err}
		}
		return dataLoadedMsg{items: items, shops: shops}
	}
}

// Update handles messages.
func (m *EntryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dataLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.items = msg.items
		m.shops = msg.shops
		return m, nil

	case commitDoneMsg:
		m.saving = false
		if msg.err != nil {
			m.err = msg.err
			m.status = commitErrorMessage(msg.err)
			return m, nil
		}
		m.err = nil
		m.last = msg.result
		m.status = fmt.Sprintf("Saved %s for ₹%s", msg.result.Item.Name, purchase.FormatAmount(msg.result.Transaction.TotalCost))
		m.resetForm()
		// The recorder invalidated the cache, so this sees the new records
		return m, m.loadData()

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *EntryModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case m.saving:
		// The form is reset once the save lands; edits now would be lost.
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m, m.submit()

	case key.Matches(msg, m.keys.Clear):
		m.resetForm()
		m.status = ""
		return m, nil

	case key.Matches(msg, m.keys.Next):
		return m, m.setFocus(m.focus + 1)

	case key.Matches(msg, m.keys.Prev):
		return m, m.setFocus(m.focus - 1)

	case key.Matches(msg, m.keys.Down):
		m.cursor = min(m.cursor+1, max(m.suggestionCount()-1, 0))
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.cursor = max(m.cursor-1, 0)
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if m.pickSuggestion() {
			if m.focus == fieldShop {
				return m, nil
			}
			return m, m.setFocus(m.focus + 1)
		}
		if m.focus == fieldShop {
			return m, m.submit()
		}
		return m, m.setFocus(m.focus + 1)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.syncForm()
	return m, cmd
}

// syncForm copies the focused input into the form. Changing the item or
// shop text drops the selection.
func (m *EntryModel) syncForm() {
	value := m.inputs[m.focus].Value()
	switch m.focus {
	case fieldItem:
		if value != m.form.ItemText() {
			m.form.SetItemText(value)
			m.cursor = 0
		}
	case fieldShop:
		if value != m.form.ShopText() {
			m.form.SetShopText(value)
			m.cursor = 0
		}
	case fieldPrice:
		m.form.SetPriceText(value)
	case fieldQuantity:
		m.form.SetQuantityText(value)
	case fieldUnit:
		m.form.SetUnit(value)
	}
}

// syncInputs copies the form into the inputs.
func (m *EntryModel) syncInputs() {
	m.inputs[fieldItem].SetValue(m.form.ItemText())
	m.inputs[fieldPrice].SetValue(m.form.PriceText())
	m.inputs[fieldQuantity].SetValue(m.form.QuantityText())
	m.inputs[fieldUnit].SetValue(m.form.Unit())
	m.inputs[fieldShop].SetValue(m.form.ShopText())
}

func (m *EntryModel) setFocus(field int) tea.Cmd {
	field = (field + fieldCount) % fieldCount
	m.inputs[m.focus].Blur()
	m.focus = field
	m.cursor = 0
	return m.inputs[field].Focus()
}

func (m *EntryModel) itemSuggestions() []model.Item {
	s := m.form.ItemSuggestions(m.items)
	return s[:min(len(s), maxSuggestions)]
}

func (m *EntryModel) shopSuggestions() []model.Shop {
	s := m.form.ShopSuggestions(m.shops)
	return s[:min(len(s), maxSuggestions)]
}

func (m *EntryModel) suggestionCount() int {
	switch m.focus {
	case fieldItem:
		return len(m.itemSuggestions())
	case fieldShop:
		return len(m.shopSuggestions())
	}
	return 0
}

// pickSuggestion binds the highlighted suggestion of the focused field.
func (m *EntryModel) pickSuggestion() bool {
	switch m.focus {
	case fieldItem:
		s := m.itemSuggestions()
		if m.cursor >= len(s) {
			return false
		}
		m.form.SelectItem(s[m.cursor])
	case fieldShop:
		s := m.shopSuggestions()
		if m.cursor >= len(s) {
			return false
		}
		m.form.SelectShop(s[m.cursor])
	default:
		return false
	}
	m.syncInputs()
	return true
}

// submit starts a commit. It does nothing while one is running.
func (m *EntryModel) submit() tea.Cmd {
	if m.saving {
		return nil
	}

	candidate, err := m.form.Candidate(m.items, m.shops, m.now())
	if err == nil {
		err = purchase.Validate(candidate)
	}
	if err != nil {
		m.err = err
		m.status = validationMessage(err)
		return nil
	}

	m.saving = true
	m.err = nil
	m.status = "Saving..."
	return func() tea.Msg {
		result, err := m.committer.Commit(m.ctx, candidate)
		return commitDoneMsg{result: result, err: err}
	}
}

func (m *EntryModel) resetForm() {
	m.form.Reset()
	m.syncInputs()
	m.setFocus(fieldItem)
}

// Saving reports whether a commit is in flight.
func (m *EntryModel) Saving() bool { return m.saving }

// Status returns the current status line.
func (m *EntryModel) Status() string { return m.status }

// Form exposes the form state.
func (m *EntryModel) Form() *purchase.Form { return m.form }

// LastResult returns the most recent successful commit.
func (m *EntryModel) LastResult() *purchase.Result { return m.last }

func validationMessage(err error) string {
	var verr *common.ValidationError
	if errors.As(err, &verr) && verr.Reason != "required" {
		return fmt.Sprintf("%s %s", strings.ToLower(fieldLabelFor(verr.Field)), verr.Reason)
	}
	return common.MsgRequiredFields
}

func commitErrorMessage(err error) string {
	if errors.Is(err, common.ErrCommitInProgress) {
		return "Still saving the previous purchase"
	}
	return common.MsgSaveFailed
}

func fieldLabelFor(field string) string {
	for _, label := range fieldLabels {
		if strings.EqualFold(label, field) {
			return label
		}
	}
	return field
}

// View renders the form.
func (m *EntryModel) View() string {
	var b strings.Builder

	b.WriteString(m.theme.Title.Render("Add Purchase"))
	b.WriteString("\n")

	for i := range m.inputs {
		label := m.theme.Label.Render(fieldLabels[i])
		b.WriteString(label + " " + m.inputs[i].View() + "\n")

		if i == m.focus {
			b.WriteString(m.renderSuggestions())
		}
		if i == fieldItem {
			if item := m.form.SelectedItem(); item != nil && item.HasPriceHistory() {
				b.WriteString(m.theme.Subtitle.Render(fmt.Sprintf("           Last purchase: ₹%s / %s",
					purchase.FormatAmount(*item.LastPrice), item.Unit)))
				b.WriteString("\n")
			}
		}
		if i == fieldPrice {
			b.WriteString(m.renderPriceDiff())
		}
	}

	b.WriteString("\n")
	b.WriteString(m.theme.Bold.Render(fmt.Sprintf("Total: ₹%s", purchase.FormatAmount(m.form.TotalCost()))))
	b.WriteString("\n\n")

	if m.status != "" {
		b.WriteString(m.renderStatus())
		b.WriteString("\n\n")
	}

	b.WriteString(m.help.View(m.keys))

	return m.theme.RoundedBox.Render(b.String())
}

func (m *EntryModel) renderSuggestions() string {
	var lines []string
	switch m.focus {
	case fieldItem:
		for i, item := range m.itemSuggestions() {
			text := item.Name
			if item.HasPriceHistory() {
				text += fmt.Sprintf("  Last: ₹%s", purchase.FormatAmount(*item.LastPrice))
			}
			lines = append(lines, m.renderSuggestion(i, text))
		}
	case fieldShop:
		for i, shop := range m.shopSuggestions() {
			lines = append(lines, m.renderSuggestion(i, shop.Name))
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func (m *EntryModel) renderSuggestion(i int, text string) string {
	if i == m.cursor {
		return "           " + m.theme.Selected.Render(" "+text+" ")
	}
	return "           " + m.theme.Normal.Render(" "+text+" ")
}

func (m *EntryModel) renderPriceDiff() string {
	diff, ok := m.form.PriceDiff()
	if !ok || diff == 0 {
		return ""
	}
	arrow, sign, color := "▼", "-", m.theme.Decrease
	if diff > 0 {
		arrow, sign, color = "▲", "+", m.theme.Increase
	}
	abs := diff
	if abs < 0 {
		abs = -abs
	}
	style := lipgloss.NewStyle().Foreground(color)
	return "           " + style.Render(fmt.Sprintf("%s %s₹%s", arrow, sign, purchase.FormatAmount(abs))) + "\n"
}

func (m *EntryModel) renderStatus() string {
	switch {
	case m.saving:
		return m.theme.StatusPending.Render(m.status)
	case m.err != nil:
		return m.theme.StatusError.Render(m.status)
	default:
		return m.theme.StatusSuccess.Render(m.status)
	}
}
