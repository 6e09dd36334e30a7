package component

import (
	"time"

	"github.com/zjrosen/slotmenu/internal/attribute"
	"github.com/zjrosen/slotmenu/internal/host"
	"github.com/zjrosen/slotmenu/internal/log"
)

const (
	textInputPrompt = "input the value within 10 seconds"
	textInputWait   = 10 * time.Second
)

// TextInputField stores the next chat message as its value and shows it
// in the item's lore.
type TextInputField struct {
	Base
	disabled bool
}

// NewTextInputField binds a text input to a slot.
func NewTextInputField(b Base, disabled bool) *TextInputField {
	return &TextInputField{Base: b, disabled: disabled}
}

func (f *TextInputField) OnListen(player host.PlayerID, m host.Messenger) {
	m.SendMessage(player, textInputPrompt)
}

func (f *TextInputField) MaxWait() time.Duration { return textInputWait }
func (f *TextInputField) Disabled() bool         { return f.disabled }

// Callback stores the message and re-renders the slot.
func (f *TextInputField) Callback(ev *host.ChatEvent) error {
	if err := f.ctx.SetAttribute(f.stack, ValueTag, attribute.String(ev.Message)); err != nil {
		return err
	}
	f.stack.Meta.Lore = []string{"Input: " + ev.Message}
	f.Update()
	log.Debug(log.CatListen, "text input received", "player", ev.Player, "item", f.stack.Meta.ID)
	return nil
}

// Value returns the stored input, if any.
func (f *TextInputField) Value() (string, bool) {
	v, ok, err := f.ctx.Attribute(f.stack, ValueTag, attribute.KindString)
	if err != nil || !ok {
		return "", false
	}
	return v.AsString()
}
