package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/slotmenu/internal/demo"
	"github.com/zjrosen/slotmenu/internal/host"
	"github.com/zjrosen/slotmenu/internal/preview"
)

var (
	playPlayer  string
	playBalance int64
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Drive the demo menus from the terminal",
	Long: `Open the demo shop, vault and form menus and feed them clicks, drags
and chat lines read from stdin, one command per line:

  open <shop|vault|form>   open a menu
  click <slot> [type]      click a slot (LEFT, RIGHT, SHIFT_LEFT, ...)
  drag <slot> [slot...]    drag across slots
  chat <text>              send a chat line (answers text inputs)
  show                     draw the open menu
  close                    close the open menu
  quit                     leave

Example:
  printf 'open shop\nclick 11\nclick 0\n' | slotmenu play`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVarP(&playPlayer, "player", "p", "steve", "player name")
	playCmd.Flags().Int64Var(&playBalance, "balance", 150, "starting vault balance")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	eng, err := newEngine(cfg, out)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	defer func() { _ = eng.Close(context.WithoutCancel(ctx)) }()

	ctrl, err := demo.Register(eng.manager, playBalance)
	if err != nil {
		return err
	}
	p := &player{id: host.PlayerID(playPlayer), eng: eng, ctrl: ctrl, out: out}
	return p.run(ctx, cmd.InOrStdin())
}

// player turns stdin commands into host events.
type player struct {
	id   host.PlayerID
	eng  *engine
	ctrl *demo.Controller
	out  io.Writer
}

func (p *player) run(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		verb, rest, _ := strings.Cut(line, " ")
		if verb == "quit" || verb == "exit" {
			return nil
		}
		if err := p.exec(ctx, verb, strings.TrimSpace(rest)); err != nil {
			_, _ = fmt.Fprintln(p.out, "error:", err)
		}
	}
	return sc.Err()
}

func (p *player) exec(ctx context.Context, verb, rest string) error {
	switch verb {
	case "open":
		model, err := p.model(rest)
		if err != nil {
			return err
		}
		if _, err := p.eng.manager.Open(ctx, p.id, rest, model); err != nil {
			return err
		}
		p.show()
		return nil
	case "click":
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return fmt.Errorf("click needs a slot")
		}
		slot, err := strconv.Atoi(fields[0])
		if err != nil {
			return fmt.Errorf("bad slot %q", fields[0])
		}
		click := host.ClickLeft
		if len(fields) > 1 {
			click = host.ClickType(strings.ToUpper(fields[1]))
		}
		v, ok := p.eng.manager.Current(p.id)
		if !ok {
			return fmt.Errorf("no open menu")
		}
		return p.dispatch(ctx, host.NewClickEvent(p.id, v.Container(), slot, click))
	case "drag":
		var slots []int
		for _, f := range strings.Fields(rest) {
			slot, err := strconv.Atoi(f)
			if err != nil {
				return fmt.Errorf("bad slot %q", f)
			}
			slots = append(slots, slot)
		}
		v, ok := p.eng.manager.Current(p.id)
		if !ok {
			return fmt.Errorf("no open menu")
		}
		return p.dispatch(ctx, host.NewDragEvent(p.id, v.Container(), slots...))
	case "chat":
		handled, err := p.eng.manager.HandleChat(ctx, &host.ChatEvent{Player: p.id, Message: rest})
		if err != nil {
			return err
		}
		if !handled {
			_, _ = fmt.Fprintf(p.out, "<%s> %s\n", p.id, rest)
			return nil
		}
		p.show()
		return nil
	case "show":
		p.show()
		return nil
	case "close":
		return p.eng.manager.CloseView(ctx, p.id)
	default:
		return fmt.Errorf("unknown command %q", verb)
	}
}

func (p *player) model(name string) (any, error) {
	switch name {
	case demo.ShopView:
		return demo.ShopModel{Player: string(p.id), Products: demo.DefaultProducts()}, nil
	case demo.VaultView:
		return demo.VaultModel{Balance: p.ctrl.Balance()}, nil
	case demo.FormView:
		return demo.FormModel{Field: "nickname"}, nil
	default:
		return nil, fmt.Errorf("unknown menu %q (try shop, vault or form)", name)
	}
}

func (p *player) dispatch(ctx context.Context, ev host.Event) error {
	handled, err := p.eng.manager.HandleEvent(ctx, ev)
	if err != nil {
		return err
	}
	if !handled {
		_, _ = fmt.Fprintln(p.out, "(nothing happened)")
	}
	p.show()
	return nil
}

func (p *player) show() {
	v, ok := p.eng.manager.Current(p.id)
	if !ok {
		_, _ = fmt.Fprintln(p.out, "(no open menu)")
		return
	}
	_, _ = fmt.Fprintln(p.out, preview.Container(v.Container(), v.Mask(), preview.DefaultOptions()))
}
