package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/leofalp/wfextract/core/pipeline"
	"github.com/leofalp/wfextract/internal/server"
	"github.com/leofalp/wfextract/providers/observability"
	"github.com/leofalp/wfextract/providers/observability/promobs"
)

type serveOptions struct {
	addr         string
	maxBodyBytes int64
}

func newServeCmd(globals *globalOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the extraction pipeline over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := globals.load()
			if err != nil {
				return err
			}

			addr := cfg.Server.Addr
			if cmd.Flags().Changed("addr") {
				addr = opts.addr
			}

			registry := prometheus.NewRegistry()
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			observer := promobs.Wrap(cfg.Observer(cmd.ErrOrStderr()), promobs.New(registry, promobs.WithNamespace(cfg.Metrics.Namespace)))

			pipelineOpts, err := cfg.PipelineOptions()
			if err != nil {
				return err
			}
			p := pipeline.New(append(pipelineOpts, pipeline.WithObserver(observer))...)

			srv := server.New(p,
				server.WithObserver(observer),
				server.WithGatherer(registry),
				server.WithMaxBodyBytes(opts.maxBodyBytes),
			)

			observer.Info(cmd.Context(), "listening", observability.String("addr", addr))
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().Int64Var(&opts.maxBodyBytes, "max-body-bytes", server.DefaultMaxBodyBytes, "maximum request body size")

	return cmd
}
