package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var templatesJSON bool

// poolDTO is the JSON shape of one pool.
type poolDTO struct {
	Group     string   `json:"group"`
	Templates []string `json:"templates"`
}

var templatesListCmd = &cobra.Command{
	Use:   "templates:list",
	Short: "List template pools and their templates",
	Long: `List every pool group with the ids of its templates.

Examples:
  slotmenu templates:list
  slotmenu templates:list -t ./templates --json | jq '.[].group'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := loadLibrary(cfg, loadOptions(featureFlags(cfg)))
		if err != nil {
			return err
		}

		dtos := make([]poolDTO, 0)
		for _, group := range lib.Groups() {
			pool, _ := lib.Pool(group)
			dtos = append(dtos, poolDTO{Group: group, Templates: pool.IDs()})
		}

		out := cmd.OutOrStdout()
		if templatesJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(dtos)
		}
		for _, d := range dtos {
			_, _ = fmt.Fprintf(out, "%s (%d)\n", d.Group, len(d.Templates))
			for _, id := range d.Templates {
				_, _ = fmt.Fprintf(out, "  %s/%s\n", d.Group, id)
			}
		}
		return nil
	},
}

func init() {
	templatesListCmd.Flags().BoolVar(&templatesJSON, "json", false, "print JSON")
	rootCmd.AddCommand(templatesListCmd)
}
