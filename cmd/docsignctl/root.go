package main

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"docsign/pkg/config"
	"docsign/pkg/logx"
	"docsign/pkg/lookup"
	"docsign/pkg/pdfload"
	"docsign/pkg/pdfstore"
	"docsign/pkg/signclient"
	"docsign/pkg/signpage"
	"docsign/pkg/urlnorm"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// errReported marks a failure whose summary line was already printed.
var errReported = errors.New("reported")

type app struct {
	cfg        config.Config
	client     *signclient.Client
	orch       *signpage.Orchestrator
	loader     *pdfload.Loader
	lookups    *lookup.Service
	norm       urlnorm.Normalizer
	closeStore func()
}

type rootFlags struct {
	apiBase   string
	timeout   time.Duration
	policy    string
	backend   string
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	var flags rootFlags
	a := &app{closeStore: func() {}}

	cmd := &cobra.Command{
		Use:           "docsignctl",
		Short:         "Operator tools for document signing sessions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.Context(), cmd, flags)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.closeStore()
		},
	}
	cmd.PersistentFlags().StringVar(&flags.apiBase, "api-base", "", "backend API base URL (overrides DOCSIGN_API_BASE_URL)")
	cmd.PersistentFlags().DurationVar(&flags.timeout, "timeout", 0, "per-request timeout")
	cmd.PersistentFlags().StringVar(&flags.policy, "pdf-policy", "", "pdf policy: cache or fresh")
	cmd.PersistentFlags().StringVar(&flags.backend, "cache-backend", "", "pdf cache backend: memory, redis, postgres or s3")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level")
	cmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "console", "log format: json or console")

	cmd.AddCommand(
		newResolveCmd(a),
		newSessionCmd(a),
		newFetchPDFCmd(a),
		newSignCmd(a),
		newLookupCmd(a),
	)
	return cmd
}

func (a *app) init(ctx context.Context, cmd *cobra.Command, f rootFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.FromEnv()
	if f.apiBase != "" {
		cfg.APIBaseURL = f.apiBase
	}
	if f.timeout > 0 {
		cfg.RequestTimeout = f.timeout
	}
	if f.policy != "" {
		cfg.PDFPolicy = f.policy
	}
	if f.backend != "" {
		cfg.CacheBackend = f.backend
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	cfg = cfg.Normalized()
	logx.SetupWriter(cmd.ErrOrStderr(), cfg.LogLevel, f.logFormat)

	a.cfg = cfg
	a.client = signclient.FromConfig(cfg)
	a.lookups = lookup.New(a.client)
	a.norm = urlnorm.Normalizer{APIBase: cfg.APIBaseURL, PageOrigin: cfg.PageOrigin, S3PublicBase: cfg.S3PublicBase}

	var store pdfstore.Store
	if cfg.PDFPolicy == config.PolicyCache {
		st, closeFn, err := pdfstore.Open(ctx, cfg)
		if err != nil {
			return errors.Wrap(err, "open pdf cache")
		}
		store, a.closeStore = st, closeFn
	}
	a.loader = pdfload.New(a.client, store, cfg.PDFPolicy)
	a.orch = signpage.New(a.client, a.loader, cfg)
	return nil
}

func printSummary(w io.Writer, command, status string, fields map[string]any) {
	out := map[string]any{
		"tool":          "docsignctl",
		"command":       command,
		"status":        status,
		"timestamp_utc": time.Now().UTC().Format(time.RFC3339Nano),
	}
	for k, v := range fields {
		out[k] = v
	}
	b, _ := json.Marshal(out)
	_, _ = w.Write(append(b, '\n'))
}

func fail(cmd *cobra.Command, command string, err error, fields map[string]any) error {
	if fields == nil {
		fields = map[string]any{}
	}
	fields["reason"] = err.Error()
	if code := signclient.StatusCode(err); code != 0 {
		fields["http_status"] = code
	}
	printSummary(cmd.OutOrStdout(), command, "FAIL", fields)
	return errReported
}
