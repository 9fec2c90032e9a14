package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "View profiles and manage follows",
}

var profileGetCmd = &cobra.Command{
	Use:   "get <user-id>",
	Short: "Show a user's profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return getProfile(args[0])
	},
}

var profileFollowCmd = &cobra.Command{
	Use:   "follow <user-id>",
	Short: "Toggle following a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := apiRequest("POST", "/api/v1/users/"+args[0]+"/follow", nil)
		if err != nil {
			return err
		}
		if output == "json" {
			fmt.Println(string(body))
			return nil
		}
		var result struct {
			Following bool `json:"following"`
		}
		if err := json.Unmarshal(body, &result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
		if result.Following {
			fmt.Println("✓ Now following")
		} else {
			fmt.Println("✓ Unfollowed")
		}
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileGetCmd)
	profileCmd.AddCommand(profileFollowCmd)
}

func getProfile(userID string) error {
	body, err := apiRequest("GET", "/api/v1/users/"+userID+"/profile", nil)
	if err != nil {
		return err
	}

	if output == "json" {
		fmt.Println(string(body))
		return nil
	}

	var profile struct {
		User struct {
			Name string `json:"name"`
		} `json:"user"`
		FollowerCount  int64 `json:"follower_count"`
		FollowingCount int64 `json:"following_count"`
		PostCount      int64 `json:"post_count"`
		IsFollowing    bool  `json:"is_following"`
	}
	if err := json.Unmarshal(body, &profile); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	fmt.Printf("\n📋 %s\n", profile.User.Name)
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Printf("Followers: %d\n", profile.FollowerCount)
	fmt.Printf("Following: %d\n", profile.FollowingCount)
	fmt.Printf("Posts:     %d\n", profile.PostCount)
	if profile.IsFollowing {
		fmt.Printf("You follow this user\n")
	}
	fmt.Printf("\n")

	return nil
}
