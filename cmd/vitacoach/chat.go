package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/asmayaseen/vitacoach/internal/config"
	"github.com/asmayaseen/vitacoach/internal/session"
	"github.com/asmayaseen/vitacoach/internal/tui"
	"github.com/asmayaseen/vitacoach/pkg/models"
)

var (
	chatUserID string
	chatName   string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive coaching chat",
	Long: `Open a terminal chat with your coaching team.

With --user, resumes the stored session for that user ID. With --name,
starts a fresh session for a new user. Without either, starts an
anonymous throwaway session.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatUserID, "user", "", "Resume the session for this user ID")
	chatCmd.Flags().StringVar(&chatName, "name", "", "Start a fresh session under this name")
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	orch, err := buildOrchestrator(cfg, db)
	if err != nil {
		return err
	}

	var sess *session.Context
	if chatUserID != "" {
		sessionID, err := db.LatestSessionID(chatUserID)
		if err != nil {
			return err
		}
		if sessionID != "" {
			sess, err = db.LoadSession(cmd.Context(), sessionID)
			if err != nil {
				return err
			}
		}
		if sess == nil {
			return fmt.Errorf("no session found for user %s", chatUserID)
		}
		color.Green("Resuming session for %s", sess.Profile.Name)
	} else {
		name := chatName
		if name == "" {
			name = "friend"
		}
		sess = session.New(models.Profile{Name: name})
		color.Green("Starting a new session. Your user ID is %s", sess.Profile.UserID)
	}

	return tui.Run(orch, sess)
}
