package commands

import (
	"context"
	"errors"
	"time"

	"github.com/urfave/cli/v3"
)

// Commands returns the subcommands that act on the backend directly.
func Commands(load Loader) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "list",
			Usage: "List notes",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "favorites", Aliases: []string{"f"}, Usage: "Only favourite notes"},
			},
			Action: with(load, func(ctx context.Context, cmd *cli.Command, env *Env) error {
				return List(ctx, env, cmd.Bool("favorites"))
			}),
		},
		{
			Name:      "show",
			Usage:     "Show a note with its images",
			ArgsUsage: "<id>",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "markdown", Aliases: []string{"m"}, Usage: "Print Markdown with YAML frontmatter"},
				&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Write the Markdown to a file"},
			},
			Action: with(load, func(ctx context.Context, cmd *cli.Command, env *Env) error {
				id, err := noteID(cmd)
				if err != nil {
					return err
				}
				return Show(ctx, env, id, ShowOptions{Markdown: cmd.Bool("markdown"), OutFile: cmd.String("out")})
			}),
		},
		{
			Name:      "update",
			Usage:     "Edit a note and save it",
			ArgsUsage: "<id>",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "title", Usage: "New title"},
				&cli.StringFlag{Name: "content", Usage: "New content"},
				&cli.StringFlag{Name: "from-file", Usage: "Import title and content from a Markdown file"},
				&cli.StringFlag{Name: "transcription", Usage: "New audio transcription"},
				&cli.BoolFlag{Name: "favorite", Usage: "Favourite flag sent with the update"},
				&cli.StringSliceFlag{Name: "image", Usage: "Attach a local image (repeatable)"},
				&cli.StringSliceFlag{Name: "remove-image", Usage: "Detach an existing image by URL (repeatable)"},
			},
			Action: with(load, func(ctx context.Context, cmd *cli.Command, env *Env) error {
				id, err := noteID(cmd)
				if err != nil {
					return err
				}
				opts := UpdateOptions{
					FromFile:     cmd.String("from-file"),
					Images:       cmd.StringSlice("image"),
					RemoveImages: cmd.StringSlice("remove-image"),
				}
				if cmd.IsSet("title") {
					v := cmd.String("title")
					opts.Title = &v
				}
				if cmd.IsSet("content") {
					v := cmd.String("content")
					opts.Content = &v
				}
				if cmd.IsSet("transcription") {
					v := cmd.String("transcription")
					opts.Transcription = &v
				}
				if cmd.IsSet("favorite") {
					v := cmd.Bool("favorite")
					opts.Favorite = &v
				}
				return Update(ctx, env, id, opts)
			}),
		},
		{
			Name:      "favorite",
			Usage:     "Toggle a note's favourite flag",
			ArgsUsage: "<id>",
			Action: with(load, func(ctx context.Context, cmd *cli.Command, env *Env) error {
				id, err := noteID(cmd)
				if err != nil {
					return err
				}
				return Favorite(ctx, env, id)
			}),
		},
		{
			Name:      "share",
			Usage:     "Share a note, or copy it when no share command is configured",
			ArgsUsage: "<id>",
			Action: with(load, func(ctx context.Context, cmd *cli.Command, env *Env) error {
				id, err := noteID(cmd)
				if err != nil {
					return err
				}
				return Share(ctx, env, id)
			}),
		},
		{
			Name:      "copy",
			Usage:     "Copy a note's content to the clipboard",
			ArgsUsage: "<id>",
			Action: with(load, func(ctx context.Context, cmd *cli.Command, env *Env) error {
				id, err := noteID(cmd)
				if err != nil {
					return err
				}
				return CopyContent(ctx, env, id)
			}),
		},
		{
			Name:  "login",
			Usage: "Store the session token",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "token", Usage: "Session token (prompted when omitted)", Sources: cli.EnvVars("AINOTES_TOKEN")},
			},
			Action: with(load, func(ctx context.Context, cmd *cli.Command, env *Env) error {
				return Login(ctx, env, cmd.String("token"))
			}),
		},
		{
			Name:  "logout",
			Usage: "Clear the session token",
			Action: with(load, func(ctx context.Context, _ *cli.Command, env *Env) error {
				return Logout(ctx, env)
			}),
		},
		{
			Name:  "whoami",
			Usage: "Show whether a session token is stored",
			Action: with(load, func(ctx context.Context, _ *cli.Command, env *Env) error {
				return Whoami(ctx, env, time.Now())
			}),
		},
	}
}

func with(load Loader, fn func(ctx context.Context, cmd *cli.Command, env *Env) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		env, release, err := load(ctx, cmd)
		if err != nil {
			return err
		}
		defer release()
		return fn(ctx, cmd, env)
	}
}

func noteID(cmd *cli.Command) (string, error) {
	id := cmd.Args().First()
	if id == "" {
		return "", errors.New("note id is required")
	}
	return id, nil
}
