package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"jarvis/internal/ipc"
)

var (
	flagSocket  string
	flagTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:           "jarvis-ctl",
	Short:         "Control a running jarvis-daemon",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var sayCmd = &cobra.Command{
	Use:   "say <text>",
	Short: "Send a typed command",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return send(cmd.Context(), ipc.ControlMessage{Cmd: ipc.CmdSay, Text: strings.Join(args, " ")})
	},
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Record one utterance from the microphone and run it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return send(cmd.Context(), ipc.ControlMessage{Cmd: ipc.CmdListen})
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop speaking",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return send(cmd.Context(), ipc.ControlMessage{Cmd: ipc.CmdStop})
	},
}

func send(ctx context.Context, msg ipc.ControlMessage) error {
	ctx, cancel := context.WithTimeout(ctx, flagTimeout)
	defer cancel()

	reply, err := ipc.Send(ctx, flagSocket, msg)
	if err != nil {
		return fmt.Errorf("jarvis-daemon not running: %w", err)
	}
	if !reply.OK {
		return errors.New(reply.Error)
	}
	if reply.Response != "" {
		fmt.Println(reply.Response)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSocket, "socket", ipc.DefaultSocketPath(), "daemon control socket")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 2*time.Minute, "how long to wait for the daemon")
	rootCmd.AddCommand(sayCmd, listenCmd, stopCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
