package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/teranos/tsclientgen/errors"
	"github.com/teranos/tsclientgen/wsclient"
)

var callTimeout time.Duration

// CallCmd sends one request over a WebSocket channel
var CallCmd = &cobra.Command{
	Use:   "call <url> <operation> [json-body]",
	Short: "Send one request over a WebSocket channel and print the reply",
	Long: `Speak the correlation protocol the generated channels use: the request
carries a fresh id and the operation tag, and the first reply echoing that id
is printed. Replies for other ids are ignored.

Examples:
  tsclientgen call ws://localhost:8080/feed subscribe '{"topic":"points"}'
  tsclientgen call ws://localhost:8080/feed ping`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		var body any
		if len(args) == 3 {
			if err := json.Unmarshal([]byte(args[2]), &body); err != nil {
				return errors.WithHint(errors.Wrap(err, "body is not valid JSON"),
					`quote the body, e.g. '{"x":1}'`)
			}
		}

		ctx := cmd.Context()
		if callTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, callTimeout)
			defer cancel()
		}

		ch, err := wsclient.Dial(ctx, args[0], nil)
		if err != nil {
			return err
		}
		defer ch.Close()

		resp, err := ch.Call(ctx, args[1], body)
		if err != nil {
			return err
		}
		output, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(output))
		if !resp.OK {
			return errors.Newf("%s returned an error response", args[1])
		}
		return nil
	},
}

func init() {
	CallCmd.Flags().DurationVarP(&callTimeout, "timeout", "t", 10*time.Second, "Give up after this long (0 waits forever)")
}
