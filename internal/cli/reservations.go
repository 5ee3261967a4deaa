package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fleetbook/internal/app/booking"
)

func reservationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reservations",
		Short: "Inspect and export reservations",
	}
	cmd.AddCommand(reservationsListCmd())
	cmd.AddCommand(reservationsExportCmd())
	cmd.AddCommand(reservationsSetStatusCmd())
	return cmd
}

func reservationsListCmd() *cobra.Command {
	var vehicleID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reservations, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if vehicleID != "" {
				q.Set("vehicleId", vehicleID)
			}
			req, err := client.newRequest(cmd.Context(), http.MethodGet, "/api/v1/admin/reservations", q, nil)
			if err != nil {
				return err
			}
			var resp struct {
				Reservations []booking.Row `json:"reservations"`
			}
			if err := client.doJSON(req, &resp); err != nil {
				return err
			}

			if outputJSON {
				return json.NewEncoder(os.Stdout).Encode(resp.Reservations)
			}
			if len(resp.Reservations) == 0 {
				fmt.Println("No reservations found.")
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 2, 2, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tVEHICLE\tFROM\tTO\tSTATUS\tEMAIL")
			for _, r := range resp.Reservations {
				name := r.VehicleName
				if name == "" {
					name = r.VehicleID
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", r.ID, name, r.From, r.To, r.Status, r.Email)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&vehicleID, "vehicle", "", "Filter by vehicle id")
	return cmd
}

func reservationsSetStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-status <id> <status>",
		Short: "Set a reservation status (active or canceled)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := json.Marshal(map[string]string{"status": args[1]})
			if err != nil {
				return err
			}
			req, err := client.newRequest(cmd.Context(), http.MethodPatch,
				"/api/v1/admin/reservations/"+url.PathEscape(args[0])+"/status", nil, bytes.NewReader(payload))
			if err != nil {
				return err
			}
			if err := client.doJSON(req, nil); err != nil {
				return err
			}
			fmt.Printf("Reservation %s is now %s.\n", args[0], args[1])
			return nil
		},
	}
	return cmd
}

func reservationsExportCmd() *cobra.Command {
	var vehicleID string
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export reservations as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{"format": {"csv"}}
			if vehicleID != "" {
				q.Set("vehicleId", vehicleID)
			}
			req, err := client.newRequest(cmd.Context(), http.MethodGet, "/api/v1/admin/reservations", q, nil)
			if err != nil {
				return err
			}

			out := os.Stdout
			if outPath != "" && outPath != "-" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			if err := client.doRaw(req, out); err != nil {
				return err
			}
			if out != os.Stdout {
				fmt.Printf("Exported to %s.\n", outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&vehicleID, "vehicle", "", "Filter by vehicle id")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write CSV to a file instead of stdout")
	return cmd
}
