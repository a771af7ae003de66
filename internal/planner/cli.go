package planner

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"railviz/internal/config"
	"railviz/internal/journey"
)

// RegisterCLI contributes the one-shot `plan` command: query the routing
// collaborator once and print the derived segments without serving anything.
func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Plan a single journey and print its segments",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Usage: "origin stop id", Required: true},
			&cli.StringFlag{Name: "to", Usage: "destination stop id", Required: true},
			&cli.StringFlag{Name: "time", Usage: "departure time (HH:MM:SS)", Value: "08:00:00"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if _, err := journey.ToSeconds(c.String("time")); err != nil {
				return err
			}

			client := NewClient(cfg.PlannerBaseURL, cfg.PlannerTimeout)
			pr, err := client.Plan(context.Background(), c.String("from"), c.String("to"), c.String("time"))
			if err != nil {
				return err
			}

			segments := journey.BuildSegments(pr.DetailedRoute)
			fmt.Printf("%s -> %s  depart %s  arrive %s  (%.0f min, %d stops, %d transfers)\n",
				pr.OriginName, pr.DestinationName, pr.StartTime, pr.ArrivalTime,
				pr.TotalTravelMin, pr.StopCount, pr.TransferCount)
			if len(segments) == 0 {
				fmt.Println("no drawable segments")
				return nil
			}
			for _, seg := range segments {
				fmt.Printf("  leg %d  %-12s  %s  %d points  %s\n",
					seg.Index, seg.RouteName, seg.Color, len(seg.Positions),
					journey.FormatSeconds(seg.DurationSeconds))
			}
			return nil
		},
	}
}
