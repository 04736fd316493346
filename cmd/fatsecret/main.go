// Command fatsecret calls the FatSecret platform API with the same signed
// client the server uses. It is meant for checking credentials and looking at
// raw upstream responses.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/nutriconsulta/backend/internal/fatsecret"
	"github.com/nutriconsulta/backend/internal/types"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout).Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "fatsecret",
		Usage: "Query the FatSecret platform API with signed requests",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "consumer-key",
				Usage:   "OAuth consumer key",
				Sources: cli.EnvVars("FATSECRET_CONSUMER_KEY"),
			},
			&cli.StringFlag{
				Name:    "consumer-secret",
				Usage:   "OAuth consumer secret",
				Sources: cli.EnvVars("FATSECRET_CONSUMER_SECRET"),
			},
			&cli.StringFlag{
				Name:    "base-url",
				Value:   fatsecret.DefaultBaseURL,
				Usage:   "method endpoint",
				Sources: cli.EnvVars("FATSECRET_BASE_URL"),
			},
			&cli.StringFlag{
				Name:    "profile-url",
				Value:   fatsecret.DefaultProfileURL,
				Usage:   "profile endpoint",
				Sources: cli.EnvVars("FATSECRET_PROFILE_URL"),
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Value:   fatsecret.DefaultTimeout,
				Usage:   "request timeout",
				Sources: cli.EnvVars("FATSECRET_TIMEOUT"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "search-foods",
				Usage:     "Search foods by expression",
				ArgsUsage: "<expression>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "max-results", Value: 10, Usage: "results per page"},
					&cli.IntFlag{Name: "page", Value: 0, Usage: "zero-based page number"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					expression := strings.Join(cmd.Args().Slice(), " ")
					if expression == "" {
						return fmt.Errorf("search expression is required")
					}
					client, err := newClient(cmd)
					if err != nil {
						return err
					}
					result, err := client.SearchFoods(ctx, expression, int(cmd.Int("max-results")), int(cmd.Int("page")))
					if err != nil {
						return err
					}
					return printJSON(out, result)
				},
			},
			{
				Name:      "food",
				Usage:     "Show a food and its servings",
				ArgsUsage: "<food-id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					foodID := cmd.Args().First()
					if foodID == "" {
						return fmt.Errorf("food id is required")
					}
					client, err := newClient(cmd)
					if err != nil {
						return err
					}
					food, err := client.GetFood(ctx, foodID)
					if err != nil {
						return err
					}
					return printJSON(out, food)
				},
			},
			{
				Name:  "recommend",
				Usage: "Search recipes for dietary preferences and apply the dietary filter",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "ingredient", Usage: "preferred ingredient (repeatable)"},
					&cli.StringFlag{Name: "cuisine"},
					&cli.StringFlag{Name: "meal-type"},
					&cli.StringSliceFlag{Name: "restriction", Usage: "dietary restriction such as vegetarian or vegan (repeatable)"},
					&cli.StringSliceFlag{Name: "allergen", Usage: "allergen to avoid (repeatable)"},
					&cli.FloatFlag{Name: "max-calories", Usage: "calorie ceiling per recipe"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					prefs := types.DietaryPreferences{
						PreferredIngredients: cmd.StringSlice("ingredient"),
						Cuisine:              cmd.String("cuisine"),
						MealType:             cmd.String("meal-type"),
						DietaryRestrictions:  cmd.StringSlice("restriction"),
						Allergens:            cmd.StringSlice("allergen"),
					}
					if cmd.IsSet("max-calories") {
						limit := cmd.Float("max-calories")
						prefs.MaxCalories = &limit
					}

					client, err := newClient(cmd)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "query: %s\n", fatsecret.BuildSearchQuery(prefs))
					recipes, err := client.GetRecommendedRecipes(ctx, prefs)
					if err != nil {
						return err
					}
					return printJSON(out, recipes)
				},
			},
			{
				Name:      "recipe",
				Usage:     "Show a recipe with ingredients and directions",
				ArgsUsage: "<recipe-id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					recipeID := cmd.Args().First()
					if recipeID == "" {
						return fmt.Errorf("recipe id is required")
					}
					client, err := newClient(cmd)
					if err != nil {
						return err
					}
					recipe, err := client.GetRecipeDetails(ctx, recipeID)
					if err != nil {
						return err
					}
					return printJSON(out, recipe)
				},
			},
			{
				Name:      "sign",
				Usage:     "Print the signed URL for a method call without sending it",
				ArgsUsage: "<method> [name=value ...]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					args := cmd.Args().Slice()
					if len(args) == 0 {
						return fmt.Errorf("method is required")
					}
					fields := make(map[string]string, len(args)-1)
					for _, arg := range args[1:] {
						name, value, ok := strings.Cut(arg, "=")
						if !ok {
							return fmt.Errorf("invalid parameter %q, want name=value", arg)
						}
						fields[name] = value
					}

					client, err := newClient(cmd)
					if err != nil {
						return err
					}
					req, err := client.NewRequest("GET", cmd.String("base-url"), args[0], fields)
					if err != nil {
						return err
					}
					fmt.Fprintln(out, req.URL())
					return nil
				},
			},
		},
	}
}

func newClient(cmd *cli.Command) (*fatsecret.Client, error) {
	creds := fatsecret.Credentials{
		ConsumerKey:    cmd.String("consumer-key"),
		ConsumerSecret: cmd.String("consumer-secret"),
	}
	if !creds.Valid() {
		return nil, fmt.Errorf("consumer key and secret are required (--consumer-key/--consumer-secret or FATSECRET_CONSUMER_KEY/FATSECRET_CONSUMER_SECRET)")
	}
	return fatsecret.NewClient(creds,
		fatsecret.WithBaseURL(cmd.String("base-url")),
		fatsecret.WithProfileURL(cmd.String("profile-url")),
		fatsecret.WithTimeout(cmd.Duration("timeout")),
	), nil
}

func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
