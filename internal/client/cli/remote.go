package cli

import (
	"bufio"
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/talentscout/internal/client/client"
	pb "github.com/dmitrijs2005/talentscout/internal/proto"
)

type remoteConversation struct {
	c *client.GRPCClient
}

func fromProto(r *pb.Reply) turn {
	return turn{text: r.Text, state: r.State, finished: r.Finished}
}

func (c *remoteConversation) start(ctx context.Context) (turn, error) {
	r, err := c.c.Start(ctx)
	if err != nil {
		return turn{}, err
	}
	return fromProto(r), nil
}

func (c *remoteConversation) send(ctx context.Context, text string) (turn, error) {
	r, err := c.c.Send(ctx, text)
	if err != nil {
		return turn{}, err
	}
	return fromProto(r), nil
}

// abandon leaves the session to the server's idle eviction, which saves it.
func (c *remoteConversation) abandon(context.Context) error {
	return nil
}

func (a *App) newRemoteCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Run an interview against a talentscout server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := client.NewInterviewClient(addr)
			if err != nil {
				return err
			}
			defer c.Close()

			in := cmd.InOrStdin()
			out := cmd.OutOrStdout()
			if err := runREPL(cmd.Context(), &remoteConversation{c: c}, bufio.NewScanner(in), out, interactive(in)); err != nil {
				return err
			}
			fmt.Fprintf(out, "Session %s closed.\n", c.SessionID())
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:50051", "server address")
	return cmd
}
