package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Create posts and reactions",
}

var postCreateCmd = &cobra.Command{
	Use:   "create <content>",
	Short: "Post a new rant",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := apiRequest("POST", "/api/v1/posts", map[string]string{
			"content": strings.Join(args, " "),
		})
		if err != nil {
			return err
		}
		if output == "json" {
			fmt.Println(string(body))
		} else {
			fmt.Println("✓ Posted. Prepare to be disliked.")
		}
		return nil
	},
}

var postReactCmd = &cobra.Command{
	Use:   "react <post-id> <type>",
	Short: "Toggle a reaction on a post (like, dislike, super_dislike)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := apiRequest("POST", "/api/v1/posts/"+args[0]+"/reactions", map[string]string{
			"type": args[1],
		})
		if err != nil {
			return err
		}
		if output == "json" {
			fmt.Println(string(body))
		} else {
			fmt.Printf("✓ Reaction %s\n", args[1])
		}
		return nil
	},
}

func init() {
	postCmd.AddCommand(postCreateCmd)
	postCmd.AddCommand(postReactCmd)
}
