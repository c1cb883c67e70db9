package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"accessfirst/internal/config"
	"accessfirst/internal/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var exportNamespace string

// exportCmd prints the records of one namespace
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print a namespace's stored records as JSON",
	Long: `Print every record stored under a namespace as one JSON object.

Namespaces are "chat:<chat id>". Records that are not valid JSON are
printed as strings.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportNamespace, "namespace", "", "namespace to export, e.g. chat:42")
	_ = exportCmd.MarkFlagRequired("namespace")
}

func runExport(cmd *cobra.Command, _ []string) error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	backend, closeBackend, err := openBackend(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer closeBackend()

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.StoreTimeout)
	defer cancel()
	return exportRecords(ctx, backend, exportNamespace, cmd.OutOrStdout())
}

// exportRecords writes the records of namespace to w as one JSON object
func exportRecords(ctx context.Context, backend repository.Backend, namespace string, w io.Writer) error {
	records, err := backend.List(ctx, namespace)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", namespace, err)
	}

	out := make(map[string]json.RawMessage, len(records))
	for k, raw := range records {
		if json.Valid([]byte(raw)) {
			out[k] = json.RawMessage(raw)
			continue
		}
		quoted, err := json.Marshal(raw)
		if err != nil {
			return err
		}
		out[k] = quoted
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
