package main

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

var (
	feedScope string
	feedSort  string
	feedLimit int
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Read the feed",
	Long:  "Fetch the feed, ranked by negativity unless you ask otherwise.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showFeed()
	},
}

func init() {
	feedCmd.Flags().StringVar(&feedScope, "scope", "all", "Feed scope: all or from-followed")
	feedCmd.Flags().StringVar(&feedSort, "sort", "most-disliked", "Sort: most-disliked, least-disliked, newest, oldest")
	feedCmd.Flags().IntVar(&feedLimit, "limit", 20, "Number of posts to fetch")
}

type feedResponse struct {
	Posts []struct {
		ID      string `json:"id"`
		Content string `json:"content"`
		Author  struct {
			Name string `json:"name"`
		} `json:"author"`
		Reactions struct {
			Likes         int64 `json:"likes"`
			Dislikes      int64 `json:"dislikes"`
			SuperDislikes int64 `json:"super_dislikes"`
		} `json:"reactions"`
		NegativityScore int64 `json:"negativity_score"`
		CommentCount    int64 `json:"comment_count"`
	} `json:"posts"`
}

func showFeed() error {
	query := url.Values{}
	query.Set("scope", feedScope)
	query.Set("sort", feedSort)
	query.Set("limit", fmt.Sprintf("%d", feedLimit))

	body, err := apiRequest("GET", "/api/v1/feed?"+query.Encode(), nil)
	if err != nil {
		return err
	}

	if output == "json" {
		fmt.Println(string(body))
		return nil
	}

	var resp feedResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	for _, post := range resp.Posts {
		fmt.Printf("👎 %d  (%d dislikes, %d super, %d likes)  💬 %d\n",
			post.NegativityScore,
			post.Reactions.Dislikes,
			post.Reactions.SuperDislikes,
			post.Reactions.Likes,
			post.CommentCount,
		)
		fmt.Printf("   %s: %s\n", post.Author.Name, post.Content)
		fmt.Printf("   id: %s\n\n", post.ID)
	}

	return nil
}
