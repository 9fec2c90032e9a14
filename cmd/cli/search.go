package main

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

var searchType string

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search posts and users",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(args[0])
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchType, "type", "all", "What to search: all, posts or users")
}

type searchResponse struct {
	Posts []struct {
		ID      string `json:"id"`
		Content string `json:"content"`
		Author  struct {
			Name string `json:"name"`
		} `json:"author"`
		NegativityScore int64 `json:"negativity_score"`
	} `json:"posts"`
	Users []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"users"`
}

func runSearch(query string) error {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", searchType)

	body, err := apiRequest("GET", "/api/v1/search?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	if output == "json" {
		fmt.Println(string(body))
		return nil
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	for _, post := range resp.Posts {
		fmt.Printf("👎 %d  %s: %s\n", post.NegativityScore, post.Author.Name, post.Content)
		fmt.Printf("   id: %s\n", post.ID)
	}
	for _, user := range resp.Users {
		fmt.Printf("@  %s (id: %s)\n", user.Name, user.ID)
	}

	return nil
}
