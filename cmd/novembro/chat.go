package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/chat"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/dom"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/llm"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/server"
)

var chatURL string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the Novembro Azul assistant in the terminal",
	Long: `Opens the chat widget in the terminal. Messages go to a running proxy
when --url is given, otherwise straight to the completion API. Type /sair to quit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var client chat.Client
		if chatURL != "" {
			client = chat.NewHTTPClient(chatURL)
		} else {
			client = directClient{completer: newLLMClient()}
		}
		return runChat(cmd.Context(), client, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatURL, "url", "", "Chat proxy URL, e.g. http://localhost:3000/api/openai")
}

// directClient answers widget messages with the completion API.
type directClient struct {
	completer *llm.Client
}

func (c directClient) Send(ctx context.Context, message string) (string, error) {
	reply, err := c.completer.Complete(ctx, llm.SystemPrompt, message)
	if err != nil {
		return "", completionError(err)
	}
	return reply, nil
}

// completionError reports API-level failures the way the proxy does, as
// *chat.HTTPError. Transport failures are returned unchanged.
func completionError(err error) error {
	var upErr *llm.UpstreamError
	var invalid *llm.InvalidResponseError
	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		return httpError(http.StatusInternalServerError, server.MissingKeyMessage)
	case errors.As(err, &upErr):
		return httpError(upErr.Status, server.UpstreamErrorMessage)
	case errors.As(err, &invalid):
		return httpError(http.StatusInternalServerError, server.InvalidResponseMessage)
	default:
		return err
	}
}

func httpError(status int, message string) *chat.HTTPError {
	return &chat.HTTPError{Status: status, StatusText: http.StatusText(status), Message: message}
}

func runChat(ctx context.Context, client chat.Client, in io.Reader, out io.Writer) error {
	doc := dom.NewDocument()
	w := chat.NewWidget(client, doc)
	w.Activate(chat.LauncherID, dom.KeyDown(dom.KeyEnter))

	for _, msg := range w.Messages() {
		fmt.Fprintf(out, "bot> %s\n", msg.Text)
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "você> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "/sair" {
			break
		}

		msg, err := w.SendMessage(ctx, line)
		if errors.Is(err, chat.ErrEmptyMessage) {
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "bot> %s\n", msg.Text)
	}
	w.Activate(chat.CloseID, dom.Click())
	fmt.Fprintln(out)
	return scanner.Err()
}
