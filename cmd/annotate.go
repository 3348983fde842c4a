package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"nav-overlay/algo"
	"nav-overlay/model"
)

// NewAnnotateCmd 在命令行计算一条路径的标注
func NewAnnotateCmd() *cobra.Command {
	var (
		speed   float64
		asJSON  bool
		summary bool
	)

	cmd := &cobra.Command{
		Use:   "annotate lat,lng lat,lng [lat,lng...]",
		Short: "print heading, distance and time for each path segment",
		Long: `Print heading, distance and time for each segment of a path on the map
named by map.profile. The grid and default speed come from the same profile
serve uses (the database when enabled). Coordinates starting with "-" must
follow a "--" separator, so put flags before it.`,
		Example: "  nav-overlay annotate 0.5,0.5 1.2,1.7 0.9,2.8 --speed 450\n" +
			"  nav-overlay annotate --summary -- -0.5,0.5 1.2,1.7",
		Args: cobra.MinimumNArgs(2),
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
			if !cmd.Flags().Changed("speed") {
				speed = profile.DefaultSpeed
			}
			if err := algo.ValidateSpeed(speed); err != nil {
				return err
			}

			annotations := algo.Annotate(points, profile.Grid, speed)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(annotations)
			}
			for _, a := range annotations {
				if a.Kind == model.KindSegment {
					fmt.Fprintln(out, a.Label)
				}
			}
			if summary {
				s := algo.Summarize(annotations)
				fmt.Fprintf(out, "total: %d segments, %.1f km, %s\n", s.Segments, s.DistanceKm, s.Time)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&speed, "speed", algo.DefaultSpeed, "travel speed (km/h), defaults to the profile speed")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print all annotations as JSON")
	cmd.Flags().BoolVar(&summary, "summary", false, "print path totals after the segment labels")
	return cmd
}
