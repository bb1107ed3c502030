package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zlnvch/reviewclient/config"
	"github.com/zlnvch/reviewclient/gateway"
	"github.com/zlnvch/reviewclient/models"
)

type pageFlags struct {
	page int
	size int
}

func (p *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.page, "page", 1, "page number")
	cmd.Flags().IntVar(&p.size, "size", 0, "page size (defaults to DEFAULT_PAGE_SIZE)")
}

func (p *pageFlags) request(cfg config.Config) models.PageRequest {
	size := p.size
	if size == 0 {
		size = cfg.DefaultPageSize
	}
	return models.PageRequest{Page: p.page, Size: size}.Normalize()
}

// Execute runs the command line client.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	root, cleanup := newRootCmd()
	defer cleanup()
	return root.ExecuteContext(ctx)
}

// newRootCmd builds the command tree. cleanup flushes pending events and must
// run whether or not the command succeeded.
func newRootCmd() (*cobra.Command, func()) {
	var a *app

	root := &cobra.Command{
		Use:          "reviewclient",
		Short:        "Browse and react to movie reviews from the terminal",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a, err = newApp(cmd.Context(), cfg)
			return err
		},
	}

	current := func() *app { return a }
	root.AddCommand(
		newTopicsCmd(current),
		newCommentsCmd(current),
		newRepliesCmd(current),
		newFavoritesCmd(current),
		newLikeCmd(current),
		newFavoriteCmd(current),
		newCommentCmd(current),
		newReplyCmd(current),
		newDeleteCommentCmd(current),
	)
	cleanup := func() {
		if a != nil {
			a.close()
		}
	}
	return root, cleanup
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseId(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func newTopicsCmd(current func() *app) *cobra.Command {
	var pf pageFlags
	var filter string
	cmd := &cobra.Command{
		Use:   "topics",
		Short: "List discussion topics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			if err := a.svc.FetchTopics(cmd.Context(), filter, pf.request(a.cfg)); err != nil {
				return err
			}
			return printJSON(cmd, a.sel.Topics(filter))
		},
	}
	pf.register(cmd)
	cmd.Flags().StringVar(&filter, "filter", "", "topic list filter")
	return cmd
}

func newCommentsCmd(current func() *app) *cobra.Command {
	var pf pageFlags
	var feed bool
	cmd := &cobra.Command{
		Use:   "comments [topic-id]",
		Short: "List comments of a topic, or the home feed with --feed",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			if feed {
				if err := a.svc.FetchFeedComments(cmd.Context(), pf.request(a.cfg)); err != nil {
					return err
				}
				return printJSON(cmd, a.sel.Feed())
			}
			if len(args) != 1 {
				return fmt.Errorf("topic id required unless --feed is set")
			}
			topicId, err := parseId(args[0])
			if err != nil {
				return err
			}
			if err := a.svc.FetchTopicComments(cmd.Context(), topicId, pf.request(a.cfg)); err != nil {
				return err
			}
			return printJSON(cmd, a.sel.TopicComments(topicId))
		},
	}
	pf.register(cmd)
	cmd.Flags().BoolVar(&feed, "feed", false, "show the home feed")
	return cmd
}

func newRepliesCmd(current func() *app) *cobra.Command {
	var pf pageFlags
	cmd := &cobra.Command{
		Use:   "replies <comment-id>",
		Short: "List replies to a comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			commentId, err := parseId(args[0])
			if err != nil {
				return err
			}
			if err := a.svc.FetchReplies(cmd.Context(), commentId, pf.request(a.cfg)); err != nil {
				return err
			}
			return printJSON(cmd, a.sel.Replies(commentId))
		},
	}
	pf.register(cmd)
	return cmd
}

func newFavoritesCmd(current func() *app) *cobra.Command {
	var pf pageFlags
	var filter string
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "List favorited movies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			if err := a.svc.FetchFavorites(cmd.Context(), filter, pf.request(a.cfg)); err != nil {
				return err
			}
			return printJSON(cmd, a.sel.Favorites(filter))
		},
	}
	pf.register(cmd)
	cmd.Flags().StringVar(&filter, "filter", "", "favorites list filter")
	return cmd
}

func newLikeCmd(current func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "like <comment|reply|content|topic> <id>",
		Short: "Toggle a like",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			kind := models.TargetKind(args[0])
			if !kind.Valid() {
				return fmt.Errorf("unknown target kind %q", args[0])
			}
			id, err := parseId(args[1])
			if err != nil {
				return err
			}
			target := models.TargetKey{Kind: kind, Id: id}
			if err := a.svc.FetchLikeState(cmd.Context(), target); err != nil {
				return err
			}
			if _, err := a.svc.ToggleLike(cmd.Context(), target); err != nil {
				return err
			}
			return printJSON(cmd, a.sel.Like(target))
		},
	}
}

func newFavoriteCmd(current func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <content-id>",
		Short: "Toggle a movie in your favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			contentId, err := parseId(args[0])
			if err != nil {
				return err
			}
			if err := a.svc.FetchFavoriteState(cmd.Context(), contentId); err != nil {
				return err
			}
			if _, err := a.svc.ToggleFavorite(cmd.Context(), contentId); err != nil {
				return err
			}
			return printJSON(cmd, a.sel.Favorite(contentId))
		},
	}
}

func newCommentCmd(current func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "comment <topic-id> <text...>",
		Short: "Post a comment on a topic",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			topicId, err := parseId(args[0])
			if err != nil {
				return err
			}
			comment, err := a.svc.CreateComment(cmd.Context(), gateway.CreateCommentInput{
				TopicId: topicId,
				Content: strings.Join(args[1:], " "),
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, comment)
		},
	}
}

func newReplyCmd(current func() *app) *cobra.Command {
	var replyTo int64
	cmd := &cobra.Command{
		Use:   "reply <comment-id> <text...>",
		Short: "Reply to a comment",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			commentId, err := parseId(args[0])
			if err != nil {
				return err
			}
			reply, err := a.svc.CreateReply(cmd.Context(), gateway.CreateReplyInput{
				CommentId:     commentId,
				ReplyToUserId: replyTo,
				Content:       strings.Join(args[1:], " "),
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, reply)
		},
	}
	cmd.Flags().Int64Var(&replyTo, "to", 0, "user id being replied to")
	return cmd
}

func newDeleteCommentCmd(current func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-comment <comment-id>",
		Short: "Delete one of your comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			commentId, err := parseId(args[0])
			if err != nil {
				return err
			}
			if err := a.svc.DeleteComment(cmd.Context(), commentId); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted comment %d\n", commentId)
			return nil
		},
	}
}
