package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/app"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/modules/dedupe"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/services"
)

// deps lets tests swap the service without a database.
type deps struct {
	open func(ctx context.Context) (services.DuplicateUserService, func(), error)
}

func defaultDeps() deps {
	return deps{open: func(ctx context.Context) (services.DuplicateUserService, func(), error) {
		cfg, err := app.LoadConfig()
		if err != nil {
			return nil, nil, err
		}
		core, err := app.NewCore(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return core.Services.DuplicateUsers, core.Close, nil
	}}
}

type options struct {
	policy string
	format string
	group  string
}

func newRootCmd(d deps) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:           "dupreport",
		Short:         "Report user accounts that share an IP address and device fingerprint",
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), d, opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.policy, "policy", "", "signal policy: first_seen or most_recent (default from SIGNAL_POLICY)")
	cmd.Flags().StringVar(&opts.format, "format", "json", "output format: json or yaml")
	cmd.Flags().StringVar(&opts.group, "group", "", "print only the group with this key")
	return cmd
}

func run(ctx context.Context, d deps, opts options, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	format := strings.ToLower(strings.TrimSpace(opts.format))
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unsupported --format %q (want json or yaml)", opts.format)
	}
	var detect services.DetectOptions
	if strings.TrimSpace(opts.policy) != "" {
		policy, err := dedupe.ParsePolicy(opts.policy)
		if err != nil {
			return err
		}
		detect.Policy = policy
	}

	svc, closeFn, err := d.open(ctx)
	if err != nil {
		return err
	}
	if closeFn != nil {
		defer closeFn()
	}

	var payload any
	if opts.group != "" {
		g, err := svc.GetGroup(ctx, opts.group, detect)
		if errors.Is(err, services.ErrGroupNotFound) {
			return fmt.Errorf("no duplicate group with key %q", opts.group)
		}
		if err != nil {
			return err
		}
		payload = g
	} else {
		report, err := svc.Detect(ctx, detect)
		if err != nil {
			return err
		}
		payload = report
	}
	return write(out, format, payload)
}

func write(out io.Writer, format string, payload any) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(payload); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
