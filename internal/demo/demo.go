// Package demo registers a small shop, bank and form menu set on a
// session manager. The CLI's play command drives it from stdin.
package demo

import (
	"context"
	"fmt"

	"github.com/zjrosen/slotmenu/internal/attribute"
	"github.com/zjrosen/slotmenu/internal/component"
	"github.com/zjrosen/slotmenu/internal/host"
	"github.com/zjrosen/slotmenu/internal/item"
	"github.com/zjrosen/slotmenu/internal/param"
	"github.com/zjrosen/slotmenu/internal/returns"
	"github.com/zjrosen/slotmenu/internal/router"
	"github.com/zjrosen/slotmenu/internal/session"
	"github.com/zjrosen/slotmenu/internal/template"
	"github.com/zjrosen/slotmenu/internal/view"
)

// View names.
const (
	ShopView    = "shop"
	ConfirmView = "confirm"
	VaultView   = "vault"
	FormView    = "form"
)

// Attribute names written onto demo items.
const (
	AttrPrice   = "price"
	AttrProduct = "product"
)

// Product is one entry on the shop's shelf.
type Product struct {
	Name     string
	Material string
	Price    int32
}

// ShopModel is the model of the shop view.
type ShopModel struct {
	Player   string `menu:"player"`
	Products []Product
}

// ConfirmModel is the model of the confirmation view.
type ConfirmModel struct {
	Item  string    `menu:"item"`
	Price int32     `menu:"price"`
	Shop  ShopModel `menu:"-"`
}

// VaultModel is the model of the vault view.
type VaultModel struct {
	Balance int64 `menu:"balance"`
}

// FormModel is the model of the text input view.
type FormModel struct {
	Field string `menu:"field"`
}

// DefaultProducts stocks the shop.
func DefaultProducts() []Product {
	return []Product{
		{Name: "&bDiamond", Material: "DIAMOND", Price: 100},
		{Name: "&aEmerald", Material: "EMERALD", Price: 80},
		{Name: "&fIron Sword", Material: "IRON_SWORD", Price: 25},
		{Name: "&6Bread", Material: "BREAD", Price: 2},
		{Name: "&5Ender Pearl", Material: "ENDER_PEARL", Price: 40},
	}
}

// ShopLayout places one product per 'B' slot.
type ShopLayout struct{}

func (*ShopLayout) RenderView(model any, ctx *view.Context) error {
	m, ok := model.(ShopModel)
	if !ok {
		return nil
	}
	for _, p := range m.Products {
		st, err := ctx.ItemService().Build(p.Material).
			Display(item.Colorize(p.Name)).
			Lore([]string{item.Colorize(fmt.Sprintf("&7Price: &e%d", p.Price))}).
			Item()
		if err != nil {
			return err
		}
		if !ctx.AddItem('B', st) {
			break
		}
		if err := ctx.SetAttribute(st, AttrPrice, attribute.Int(p.Price)); err != nil {
			return err
		}
		if err := ctx.SetAttribute(st, AttrProduct, attribute.String(item.StripColor(item.Colorize(p.Name)))); err != nil {
			return err
		}
	}
	return nil
}

// ConfirmLayout renders the template as is.
type ConfirmLayout struct{}

func (*ConfirmLayout) RenderView(any, *view.Context) error { return nil }

// VaultLayout marks the vault's gold with the balance.
type VaultLayout struct{}

func (*VaultLayout) RenderView(model any, ctx *view.Context) error {
	m, ok := model.(VaultModel)
	if !ok {
		return nil
	}
	return ctx.SetPatternAttribute('G', "balance", attribute.Long(m.Balance))
}

// FormLayout renders the text input form.
type FormLayout struct{}

func (*FormLayout) RenderView(any, *view.Context) error { return nil }

// Controller handles every demo view.
type Controller struct {
	mgr     *session.Manager
	balance int64
}

// Balance returns the vault balance.
func (c *Controller) Balance() int64 { return c.balance }

func (c *Controller) ClickRoutes() []router.ClickRoute {
	shop := router.TypeOf[*ShopLayout]()
	confirm := router.TypeOf[*ConfirmLayout]()
	vault := router.TypeOf[*VaultLayout]()
	form := router.TypeOf[*FormLayout]()

	return []router.ClickRoute{
		{
			Name:    "shop.pick",
			Pattern: 'B',
			View:    shop,
			Params:  []param.Tag{nil, param.Attr(AttrProduct, attribute.KindString), param.Attr(AttrPrice, attribute.KindInt)},
			Handler: c.pick,
		},
		{Name: "shop.close", Pattern: 'C', View: shop, Handler: func() returns.Close { return returns.Close{} }},
		{
			Name:    "confirm.buy",
			Pattern: 'Y',
			View:    confirm,
			Handler: c.buy,
		},
		{
			Name:    "confirm.cancel",
			Pattern: 'N',
			View:    confirm,
			Handler: func(ui *view.Context) returns.Redirect {
				m, _ := ui.Model().(ConfirmModel)
				return returns.Redirect{View: ShopView, Model: m.Shop}
			},
		},
		{
			Name:    "vault.withdraw",
			Pattern: 'G',
			View:    vault,
			Clicks:  []host.ClickType{host.ClickLeft, host.ClickShiftLeft},
			Handler: c.withdraw,
		},
		{
			Name:    "form.type",
			Pattern: 'T',
			View:    form,
			Params:  []param.Tag{nil, nil, nil, param.Pattern()},
			Handler: c.startTyping,
		},
		{
			Name:    "form.save",
			Pattern: 'S',
			View:    form,
			Params:  []param.Tag{nil, param.Items('T')},
			Handler: c.save,
		},
	}
}

func (c *Controller) DragRoutes() []router.DragRoute {
	return []router.DragRoute{{
		Name:    "vault.deposit",
		Pattern: 'D',
		View:    router.TypeOf[*VaultLayout](),
		Handler: c.deposit,
	}}
}

func (c *Controller) pick(ui *view.Context, name string, price int32) returns.Redirect {
	shop, _ := ui.Model().(ShopModel)
	return returns.Redirect{View: ConfirmView, Model: ConfirmModel{Item: name, Price: price, Shop: shop}}
}

func (c *Controller) buy(ui *view.Context) (returns.Message, error) {
	m, ok := ui.Model().(ConfirmModel)
	if !ok {
		return returns.Message{}, fmt.Errorf("confirm view opened without a purchase")
	}
	if int64(m.Price) > c.balance {
		return returns.Message{Text: fmt.Sprintf("Not enough gold: %s costs %d, you have %d", m.Item, m.Price, c.balance)}, nil
	}
	c.balance -= int64(m.Price)
	return returns.Message{Text: fmt.Sprintf("Bought %s for %d", m.Item, m.Price)}, nil
}

func (c *Controller) withdraw(ev *host.ClickEvent) returns.Message {
	amount := int64(10)
	if ev.Click == host.ClickShiftLeft {
		amount = 100
	}
	amount = min(amount, c.balance)
	c.balance -= amount
	return returns.Message{Text: fmt.Sprintf("Withdrew %d, balance %d", amount, c.balance)}
}

func (c *Controller) deposit(ev *host.DragEvent) returns.Message {
	c.balance += int64(10 * len(ev.Slots))
	return returns.Message{Text: fmt.Sprintf("Deposited into %d slots, balance %d", len(ev.Slots), c.balance)}
}

func (c *Controller) startTyping(ctx context.Context, player host.PlayerID, ui *view.Context, p rune) error {
	b, err := component.Bind(ui, p, 0)
	if err != nil {
		return err
	}
	c.mgr.Listen(ctx, player, component.NewTextInputField(b, false))
	return nil
}

func (c *Controller) save(ui *view.Context, fields []*item.Stack) (returns.Message, error) {
	for _, st := range fields {
		if st.IsEmpty() {
			continue
		}
		v, ok, err := ui.Attribute(st, component.ValueTag, attribute.KindString)
		if err != nil {
			return returns.Message{}, fmt.Errorf("reading input: %w", err)
		}
		if !ok {
			continue
		}
		text, _ := v.AsString()
		return returns.Message{Text: "Saved: " + text}, nil
	}
	return returns.Message{Text: "Nothing to save"}, nil
}

// Register declares the demo views on mgr. Templates come from the
// "shop", "bank" and "form" pools.
func Register(mgr *session.Manager, startingBalance int64) (*Controller, error) {
	c := &Controller{mgr: mgr, balance: startingBalance}
	defs := []struct {
		name string
		def  view.Definition
	}{
		{ShopView, view.Definition{
			Template: &template.Ref{Group: "shop", ID: "main"},
			New:      func() view.Layout { return &ShopLayout{} },
		}},
		{ConfirmView, view.Definition{
			Template: &template.Ref{Group: "shop", ID: "confirm"},
			New:      func() view.Layout { return &ConfirmLayout{} },
		}},
		{VaultView, view.Definition{
			Template: &template.Ref{Group: "bank", ID: "vault"},
			New:      func() view.Layout { return &VaultLayout{} },
		}},
		{FormView, view.Definition{
			Template: &template.Ref{Group: "form", ID: "text"},
			New:      func() view.Layout { return &FormLayout{} },
		}},
	}
	for _, d := range defs {
		if err := mgr.Register(d.name, d.def, c); err != nil {
			return nil, err
		}
	}
	return c, nil
}
