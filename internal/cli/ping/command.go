package ping

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/crmarques/bloxsync/internal/cli/common"
)

type result struct {
	Status     string `json:"status" yaml:"status"`
	UniverseID int64  `json:"universe_id" yaml:"universe-id"`
	LatencyMS  int64  `json:"latency_ms" yaml:"latency-ms"`
}

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "ping",
		Short: "Check connectivity and credentials against the platform",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			project, err := common.RequireProject(deps)
			if err != nil {
				return err
			}
			gateway, err := common.RequireGateway(deps)
			if err != nil {
				return err
			}

			start := time.Now()
			if err := gateway.Ping(command.Context()); err != nil {
				return err
			}
			latency := time.Since(start)

			value := result{
				Status:     "ok",
				UniverseID: project.Universe.ID,
				LatencyMS:  latency.Milliseconds(),
			}
			return common.WriteOutput(command, globalFlags.Output, value, func(w io.Writer, item result) error {
				_, err := fmt.Fprintf(w, "ok: universe %d reachable (%dms)\n", item.UniverseID, item.LatencyMS)
				return err
			})
		},
	}

	return command
}
