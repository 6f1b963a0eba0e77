package cli

import (
	"bufio"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/talentscout/internal/app"
	"github.com/dmitrijs2005/talentscout/internal/engine"
)

type localConversation struct {
	e *engine.Engine
}

func fromEngine(r engine.Reply) turn {
	return turn{text: r.Text, state: string(r.State), finished: r.Finished}
}

func (c *localConversation) start(ctx context.Context) (turn, error) {
	r, err := c.e.Start(ctx)
	if err != nil {
		return turn{}, err
	}
	return fromEngine(r), nil
}

func (c *localConversation) send(ctx context.Context, text string) (turn, error) {
	return fromEngine(c.e.Process(ctx, text)), nil
}

func (c *localConversation) abandon(ctx context.Context) error {
	c.e.Close(ctx)
	return nil
}

func (a *App) newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Run an interview in this terminal",
		Long: `Run an interview against local storage.

Type exit, quit or bye at any time to end the interview. The record is
saved when the interview ends, when you leave, or when input ends.
ENCRYPTION_KEY must be set.`,
		Args: cobra.NoArgs,
		RunE: a.runChat,
	}
}

func (a *App) runChat(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	logger, err := app.NewLogger(a.config, a.logOutput(cmd))
	if err != nil {
		return err
	}
	comps, err := app.Build(ctx, a.config, logger)
	if err != nil {
		return err
	}
	defer comps.Close()

	id := uuid.NewString()
	e := comps.NewEngine(id)

	in := cmd.InOrStdin()
	out := cmd.OutOrStdout()
	if err := runREPL(ctx, &localConversation{e: e}, bufio.NewScanner(in), out, interactive(in)); err != nil {
		return err
	}

	if e.Saves() > 0 {
		fmt.Fprintf(out, "Record %s saved.\n", id)
	}
	return nil
}
