package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"nav-overlay/algo"
)

// NewGridCmd 查询坐标对应的格子编号
func NewGridCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grid lat,lng [lat,lng...]",
		Short: "print the grid index of one or more points",
		Long: `Print the grid index of one or more points on the map named by map.profile.
The grid comes from the same profile serve uses (the database when enabled).
Coordinates starting with "-" must follow a "--" separator.`,
		Example: "  nav-overlay grid 1.2,0.8\n  nav-overlay grid -- -0.5,1",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			points, err := parsePoints(args)
			if err != nil {
				return err
			}
			profile, err := loadProfile(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			for _, p := range points {
				fmt.Fprintln(cmd.OutOrStdout(), algo.MarkerLabel(p, profile.Grid))
			}
			return nil
		},
	}
}
