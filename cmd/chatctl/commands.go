package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"ChatBuddy/models"
	"ChatBuddy/pkg/services"
	tokenstore "ChatBuddy/pkg/token"

	"github.com/spf13/cobra"
)

func registerCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create an account with the two default personas",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireCredentials(a); err != nil {
				return err
			}
			o, err := a.orchestrator(cmd.Context())
			if err != nil {
				return err
			}
			res, err := o.RegisterUser(cmd.Context(), a.username, a.password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered %s (id %d)\n", res.User.Username, res.User.ID)
			if !res.Seeded() {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: default personas were not created: %v\n", res.SeedErr)
			}
			return nil
		},
	}
}

func loginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Check credentials and print a bearer token for the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireCredentials(a); err != nil {
				return err
			}
			o, err := a.orchestrator(cmd.Context())
			if err != nil {
				return err
			}
			user, err := o.Authenticate(cmd.Context(), a.username, a.password)
			if err != nil {
				return err
			}
			tok, _, err := tokenstore.Issue(user.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
}

func personasCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "personas", Short: "List or create personas"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List your personas",
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, sess, err := a.session(cmd.Context(), 0)
			if err != nil {
				return err
			}
			ps, err := o.ListPersonas(cmd.Context(), sess.UserID)
			if err != nil {
				return err
			}
			for _, p := range ps {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", p.ID, p.Name, p.Instructions)
			}
			return nil
		},
	}

	var name, instructions string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a persona",
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, sess, err := a.session(cmd.Context(), 0)
			if err != nil {
				return err
			}
			p, err := o.CreatePersona(cmd.Context(), sess.UserID, name, instructions)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created persona %d\n", p.ID)
			return nil
		},
	}
	create.Flags().StringVar(&name, "name", "", "display name")
	create.Flags().StringVar(&instructions, "instructions", "", "system instruction")

	cmd.AddCommand(list, create)
	return cmd
}

func chatCmd(a *app) *cobra.Command {
	var persona uint
	var retry bool
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Send one chat turn, or --retry the last unanswered one",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, sess, err := a.session(cmd.Context(), persona)
			if err != nil {
				return err
			}
			if retry {
				reply, err := o.RetryChatTurn(cmd.Context(), sess)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), reply.Content)
				return nil
			}
			turn, err := o.SendChatTurn(cmd.Context(), sess, strings.Join(args, " "))
			var pe *services.ProviderError
			if errors.As(err, &pe) {
				fmt.Fprintln(cmd.ErrOrStderr(), "your message was saved; run with --retry to ask again")
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), turn.Reply.Content)
			return nil
		},
	}
	cmd.Flags().UintVar(&persona, "persona", 0, "persona id")
	cmd.Flags().BoolVar(&retry, "retry", false, "answer the trailing unanswered message")
	return cmd
}

func postCmd(a *app) *cobra.Command {
	var persona uint
	var opts services.PostOptions
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Generate a post",
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, sess, err := a.session(cmd.Context(), persona)
			if err != nil {
				return err
			}
			rec, err := o.GeneratePost(cmd.Context(), sess, opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rec.Response)
			return nil
		},
	}
	cmd.Flags().UintVar(&persona, "persona", 0, "persona id")
	cmd.Flags().StringVar(&opts.Topic, "topic", "", "what the post is about")
	cmd.Flags().StringVar(&opts.Tone, "tone", "Casual", strings.Join(services.PostTones, "|"))
	cmd.Flags().StringVar(&opts.Length, "length", "Medium", strings.Join(services.Lengths, "|"))
	return cmd
}

func storyCmd(a *app) *cobra.Command {
	var persona uint
	var opts services.StoryOptions
	cmd := &cobra.Command{
		Use:   "story",
		Short: "Generate a story",
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, sess, err := a.session(cmd.Context(), persona)
			if err != nil {
				return err
			}
			rec, err := o.GenerateStory(cmd.Context(), sess, opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rec.Response)
			return nil
		},
	}
	cmd.Flags().UintVar(&persona, "persona", 0, "persona id")
	cmd.Flags().StringVar(&opts.Genre, "genre", "Fantasy", strings.Join(services.StoryGenres, "|"))
	cmd.Flags().StringVar(&opts.Characters, "characters", "", "who appears in the story")
	cmd.Flags().StringVar(&opts.Plot, "plot", "", "plot elements")
	cmd.Flags().StringVar(&opts.Length, "length", "Medium", strings.Join(services.Lengths, "|"))
	return cmd
}

func historyCmd(a *app) *cobra.Command {
	var persona uint
	var kind string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the chat transcript (oldest first) or creative records (newest first)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, sess, err := a.session(cmd.Context(), persona)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if kind == "chat" {
				msgs, err := o.GetChatHistory(cmd.Context(), sess)
				if err != nil {
					return err
				}
				printMessages(out, msgs)
				return nil
			}
			recs, err := o.GetCreativeHistory(cmd.Context(), sess, models.Category(kind))
			if err != nil {
				return err
			}
			for _, r := range recs {
				fmt.Fprintf(out, "[%s] %s\n%s\n\n", r.CreatedAt.Format("2006-01-02 15:04"), r.Prompt, r.Response)
			}
			return nil
		},
	}
	cmd.Flags().UintVar(&persona, "persona", 0, "persona id")
	cmd.Flags().StringVar(&kind, "kind", "chat", "chat|post|story")
	return cmd
}

func printMessages(w io.Writer, msgs []models.Message) {
	for _, m := range msgs {
		fmt.Fprintf(w, "%s: %s\n", m.Role, m.Content)
	}
}
