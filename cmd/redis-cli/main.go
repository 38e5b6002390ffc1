// Command redis-cli is a thin interactive client over the redis package,
// mirroring the teacher's cmd/memcache-cli REPL but built on cobra for flag
// and subcommand parsing instead of a bare flag.FlagSet.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pior/redisinline"
	"github.com/pior/redisinline/resp"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := redis.DefaultConfig()

	root := &cobra.Command{
		Use:   "redis-cli",
		Short: "A minimal interactive client for the Redis inline wire protocol",
	}
	root.PersistentFlags().StringVar(&cfg.Host, "host", cfg.Host, "server host, or a /path for a Unix socket")
	root.PersistentFlags().IntVar(&cfg.Port, "port", cfg.Port, "server port")
	root.PersistentFlags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "connect/command timeout")
	root.PersistentFlags().IntVar(&cfg.DB, "db", cfg.DB, "logical database to SELECT after connect")

	root.AddCommand(newSendCmd(&cfg, &cfg.Timeout))
	root.AddCommand(newReplCmd(&cfg, &cfg.Timeout))
	root.AddCommand(newInfoCmd(&cfg, &cfg.Timeout))
	return root
}

func newSendCmd(cfg *redis.Config, timeout *time.Duration) *cobra.Command {
	return &cobra.Command{
		Use:   "send <command> [args...]",
		Short: "Send a single command and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := redis.NewClient(*cfg)
			defer client.Disconnect()

			v, err := client.Send(redis.EncodeCommand(args[0], args[1:]...), *timeout)
			if err != nil {
				return err
			}
			printValue(v)
			return nil
		},
	}
}

func newInfoCmd(cfg *redis.Config, timeout *time.Duration) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the server's INFO reply",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := redis.NewClient(*cfg)
			defer client.Disconnect()

			info, err := client.Info(*timeout)
			if err != nil {
				return err
			}
			fmt.Printf("version:     %s\n", info.Version)
			fmt.Printf("uptime:      %d\n", info.Uptime)
			fmt.Printf("clients:     %d\n", info.Clients)
			fmt.Printf("slaves:      %d\n", info.Slaves)
			fmt.Printf("memory:      %d\n", info.Memory)
			fmt.Printf("changes:     %d\n", info.Changes)
			fmt.Printf("last_save:   %d\n", info.LastSave)
			fmt.Printf("connections: %d\n", info.Connections)
			fmt.Printf("commands:    %d\n", info.Commands)
			return nil
		},
	}
}

func newReplCmd(cfg *redis.Config, timeout *time.Duration) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Read inline commands from stdin and print each reply",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := redis.NewClient(*cfg)
			defer client.Disconnect()

			scanner := bufio.NewScanner(os.Stdin)
			fmt.Print("> ")
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					fmt.Print("> ")
					continue
				}
				if line == "quit" || line == "exit" {
					break
				}
				fields := strings.Fields(line)
				v, err := client.Send(redis.EncodeCommand(fields[0], fields[1:]...), *timeout)
				if err != nil {
					fmt.Printf("(error) %v\n", err)
				} else {
					printValue(v)
				}
				fmt.Print("> ")
			}
			return scanner.Err()
		},
	}
}

func printValue(v resp.Value) {
	printValueIndented(v, 0)
}

func printValueIndented(v resp.Value, depth int) {
	prefix := strings.Repeat("  ", depth)
	if v.Kind == resp.KindMultiBulk {
		if len(v.Array) == 0 {
			fmt.Printf("%s(empty list)\n", prefix)
			return
		}
		for i, elem := range v.Array {
			fmt.Printf("%s%d) ", prefix, i+1)
			printValueIndented(elem, 0)
		}
		return
	}
	fmt.Println(v.String())
}
