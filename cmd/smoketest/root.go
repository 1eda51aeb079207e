package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"inventory/backend"
)

const (
	defaultURL    = "http://localhost:5000"
	defaultItemID = "ITEM_001"
	defaultDate   = "2025-11-27"
)

var errPredictionFailed = errors.New("prediction failed")

type smokeOptions struct {
	url     string
	itemID  string
	date    string
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &smokeOptions{}
	cmd := &cobra.Command{
		Use:           "smoketest",
		Short:         "Send one prediction request to the backend and print the result",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSmoke(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.url, "url", defaultURL, "backend base URL")
	cmd.Flags().StringVar(&opts.itemID, "item-id", defaultItemID, "item to predict")
	cmd.Flags().StringVar(&opts.date, "date", defaultDate, "date to predict for")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", backend.DefaultTimeout, "request timeout")

	return cmd
}

func runSmoke(ctx context.Context, opts *smokeOptions, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	client := backend.NewBackendClient(opts.url, opts.timeout)

	payload, err := client.Predict(ctx, opts.itemID, opts.date)
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			fmt.Fprintln(stderr, "Error during prediction:", indent(apiErr.Body))
		} else {
			fmt.Fprintln(stderr, "Error during prediction:", err)
		}
		return errPredictionFailed
	}

	fmt.Fprintln(stdout, "Prediction successful:")
	fmt.Fprintln(stdout, indent(payload))
	return nil
}

// indent pretty-prints JSON with two spaces and returns anything else as is.
func indent(data []byte) string {
	var out bytes.Buffer
	if err := json.Indent(&out, bytes.TrimSpace(data), "", "  "); err != nil {
		return string(data)
	}
	return out.String()
}
