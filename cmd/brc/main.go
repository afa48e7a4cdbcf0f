package main

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ogulcanaydogan/benchmark-result-client/internal/config"
	"github.com/ogulcanaydogan/benchmark-result-client/internal/report"
	"github.com/ogulcanaydogan/benchmark-result-client/internal/store"
	"github.com/ogulcanaydogan/benchmark-result-client/pkg/check"
	"github.com/ogulcanaydogan/benchmark-result-client/pkg/check/checktest"
	"github.com/ogulcanaydogan/benchmark-result-client/pkg/result"
)

// Exit codes for CI gates.
const (
	codeValidation = 10
	codeRejected   = 13
	codeTransport  = 14
)

type cliError struct {
	code int
	err  error
}

func (e cliError) Error() string { return e.err.Error() }

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		var ce cliError
		if errors.As(err, &ce) {
			fmt.Fprintln(os.Stderr, ce.err)
			os.Exit(ce.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "brc",
		Short: "Benchmark result client for leaderboard submissions",
	}
	root.AddCommand(newInitCommand())
	root.AddCommand(newValidateCommand())
	root.AddCommand(newFingerprintCommand())
	root.AddCommand(newSubmitCommand())
	root.AddCommand(newDemoCommand())
	return root
}

func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize brc configuration and the local submission store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := store.EnsureDefaultSubmissionDir(); err != nil {
				return err
			}
			if !config.FileExists(config.DefaultPath) {
				if err := config.Write(config.DefaultPath, config.DefaultConfig()); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "initialized brc config and local submission store")
			return nil
		},
	}
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <record.json>",
		Short: "Validate an encoded result record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := decodeRecordFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "record valid: %d metric(s), config key %s\n", rec.Metrics().Len(), rec.ConfigKey())
			return nil
		},
	}
}

func newFingerprintCommand() *cobra.Command {
	var model, dataset, task string
	cmd := &cobra.Command{
		Use:   "fingerprint",
		Short: "Print the config key for a (model, dataset, task) slot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Flag presence decides field presence; an unset flag means
			// the slot field is absent, not empty.
			opts := make([]result.Option, 0, 3)
			if cmd.Flags().Changed("model") {
				opts = append(opts, result.WithModel(model))
			}
			if cmd.Flags().Changed("dataset") {
				opts = append(opts, result.WithDataset(dataset))
			}
			if cmd.Flags().Changed("task") {
				opts = append(opts, result.WithTask(task))
			}
			key, err := result.KeyForSlot(opts...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}
	cmd.Flags().StringVar(&model, "model", "", "model name")
	cmd.Flags().StringVar(&dataset, "dataset", "", "dataset name")
	cmd.Flags().StringVar(&task, "task", "", "task name")
	return cmd
}

func newSubmitCommand() *cobra.Command {
	var cfgPath, server, apiKey, outJSON, outMD string
	var timeoutSeconds int
	var save bool

	cmd := &cobra.Command{
		Use:   "submit <record.json>",
		Short: "Check a result record against the leaderboard authority",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("server") {
				cfg.ServerURL = server
			}
			if cmd.Flags().Changed("api-key") {
				cfg.APIKey = apiKey
			}
			if cmd.Flags().Changed("timeout") {
				cfg.TimeoutSeconds = timeoutSeconds
			}

			rec, err := decodeRecordFile(args[0])
			if err != nil {
				return err
			}

			opts := []check.ClientOption{
				check.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}),
			}
			if cfg.APIKey != "" {
				opts = append(opts, check.WithAPIKey(cfg.APIKey))
			}
			client := check.NewClient(cfg.ServerURL, opts...)
			verdict := client.Check(cmd.Context(), rec)

			rep := report.Build(rec, verdict, time.Now().UTC().Format(time.RFC3339))
			if outJSON != "" {
				if err := report.WriteJSON(outJSON, rep); err != nil {
					return err
				}
			}
			if outMD != "" {
				if err := report.WriteMarkdown(outMD, rep); err != nil {
					return err
				}
			}
			if save {
				raw, err := result.Encode(rec)
				if err != nil {
					return err
				}
				dir, err := store.EnsureDefaultSubmissionDir()
				if err != nil {
					return err
				}
				saved, err := store.SaveEncoded(raw, dir, rec.ConfigKey())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "archived %s\n", saved)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "verdict: %s\n", verdict.Status)
			switch verdict.Status {
			case check.StatusRejected:
				return cliError{code: codeRejected, err: fmt.Errorf("submission rejected: %s", verdict.Reason)}
			case check.StatusTransportFailure:
				return cliError{code: codeTransport, err: fmt.Errorf("authority unreachable: %s", verdict.Reason)}
			default:
				return nil
			}
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", config.DefaultPath, "path to brc config file")
	cmd.Flags().StringVar(&server, "server", "", "authority base URL (overrides config)")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "bearer token (overrides config)")
	cmd.Flags().IntVar(&timeoutSeconds, "timeout", 0, "request timeout in seconds (overrides config)")
	cmd.Flags().StringVar(&outJSON, "out", "", "write a JSON check report to this path")
	cmd.Flags().StringVar(&outMD, "md", "", "write a Markdown check report to this path")
	cmd.Flags().BoolVar(&save, "save", false, "archive the canonical encoding under .brc/submissions")
	return cmd
}

func newDemoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run a submission round trip against an in-process authority",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ln, err := net.Listen("tcp", "127.0.0.1:0")
			if err != nil {
				return err
			}
			srv := &http.Server{Handler: &checktest.Authority{}}
			go srv.Serve(ln)
			defer srv.Close()

			metrics, err := result.NewMetricSet([]result.Metric{
				{Name: "Top 1 Accuracy", Value: 76.3},
				{Name: "Top 5 Accuracy", Value: 93.1},
			})
			if err != nil {
				return err
			}
			rec, err := result.New(metrics,
				result.WithModel("EfficientNet-B0"),
				result.WithDataset("ImageNet"),
				result.WithTask(result.TaskImageClassification),
				result.WithArxivID("1905.11946"),
			)
			if err != nil {
				return err
			}

			client := check.NewClient("http://" + ln.Addr().String())
			first := client.Check(cmd.Context(), rec)
			second := client.Check(cmd.Context(), rec)
			fmt.Fprintf(cmd.OutOrStdout(), "config key: %s\n", rec.ConfigKey())
			fmt.Fprintf(cmd.OutOrStdout(), "first submission:  %s\n", first.Status)
			fmt.Fprintf(cmd.OutOrStdout(), "second submission: %s\n", second.Status)
			return nil
		},
	}
}

func decodeRecordFile(path string) (*result.Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, cliError{code: codeValidation, err: fmt.Errorf("read record: %w", err)}
	}
	rec, err := result.Decode(raw)
	if err != nil {
		var ve *result.ValidationError
		if errors.As(err, &ve) {
			return nil, cliError{code: codeValidation, err: err}
		}
		return nil, err
	}
	return rec, nil
}
