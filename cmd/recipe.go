package cmd

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/mouse-blink/remix/internal/domain"
)

// recipeCmd represents the recipe command.
var recipeCmd = newRecipeCmd()

func newRecipeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recipe",
		Short: "Sample and print one transformation recipe",
		Long: `Sample a transformation recipe from the designed ranges and print it as
the JSON document the transform engine would receive. Useful for inspecting
what a build would apply without running one.`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := rand.New(rand.NewSource(time.Now().UnixNano())) // #nosec G404

			recipe := domain.NewRecipe(r)

			out, err := json.MarshalIndent(recipe, "", "  ")
			if err != nil {
				return fmt.Errorf("encode recipe: %w", err)
			}

			cmd.Println(string(out))

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(recipeCmd)
}
