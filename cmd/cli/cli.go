package main

import (
	"bufio"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"synapse/internal/domain"
	"synapse/internal/domain/models/chat"
	llmDomain "synapse/internal/domain/services/llm"
	"synapse/internal/utils"
)

// CLI is one interactive session
type CLI struct {
	ctx     context.Context
	chatSvc llmDomain.ChatService
	in      *bufio.Scanner
	out     io.Writer
	userID  string
	logger  *slog.Logger

	mode     chat.Mode
	language chat.Language
	chatID   string
	image    *string // data URI staged for the next message
	lastID   string  // last assistant message, target of /audio
}

const helpText = `Commands:
  /mode <conversation|assistance|information|gpt>
  /lang <roman-urdu|english|pashto|sindhi>
  /image <path>     attach an image to the next message
  /audio [file]     speak the last reply into a .wav file
  /history          list recent chats
  /open <chat-id>   continue an existing chat
  /new              start a new chat
  /quit`

func (cli *CLI) run() {
	fmt.Fprintf(cli.out, "\n%sSYNAPSE terminal%s  (%s, %s)\n", colorCyan, colorReset, cli.mode, cli.language)
	fmt.Fprintln(cli.out, helpText)
	fmt.Fprintf(cli.out, "\n%s%s%s\n", colorGreen, chat.WelcomeText, colorReset)

	for {
		fmt.Fprint(cli.out, "\n> ")
		if !cli.in.Scan() {
			return
		}
		line := strings.TrimSpace(cli.in.Text())
		if line == "" {
			continue
		}

		cmd, arg, isCommand := parseCommand(line)
		if !isCommand {
			cli.send(line)
			continue
		}
		if cmd == "quit" || cmd == "exit" {
			fmt.Fprintf(cli.out, "%sKhuda hafiz!%s\n", colorGreen, colorReset)
			return
		}
		if err := cli.dispatch(cmd, arg); err != nil {
			cli.logger.Warn("command failed", "command", cmd, "error", err)
			fmt.Fprintf(cli.out, "%s%v%s\n", colorYellow, err, colorReset)
		}
	}
}

// parseCommand splits "/cmd arg" lines. isCommand is false for plain messages.
func parseCommand(line string) (cmd, arg string, isCommand bool) {
	if !strings.HasPrefix(line, "/") {
		return "", "", false
	}
	cmd, arg, _ = strings.Cut(strings.TrimPrefix(line, "/"), " ")
	return strings.ToLower(cmd), strings.TrimSpace(arg), true
}

func (cli *CLI) dispatch(cmd, arg string) error {
	switch cmd {
	case "mode":
		for _, o := range chat.Modes() {
			if o.Value == arg {
				cli.mode = chat.Mode(arg)
				fmt.Fprintf(cli.out, "Mode: %s\n", o.Label)
				return nil
			}
		}
		return fmt.Errorf("unknown mode %q", arg)

	case "lang":
		for _, o := range chat.Languages() {
			if o.Value == arg {
				cli.language = chat.Language(arg)
				fmt.Fprintf(cli.out, "Language: %s\n", o.Label)
				return nil
			}
		}
		return fmt.Errorf("unknown language %q", arg)

	case "image":
		uri, err := imageDataURI(arg)
		if err != nil {
			return err
		}
		cli.image = &uri
		fmt.Fprintf(cli.out, "Image attached to the next message\n")
		return nil

	case "audio":
		return cli.audio(arg)

	case "history":
		return cli.history()

	case "open":
		session, err := cli.chatSvc.GetChat(cli.ctx, arg, cli.userID)
		if err != nil {
			return err
		}
		cli.chatID = session.ID
		for _, m := range session.Messages {
			cli.printMessage(m)
		}
		return nil

	case "new":
		cli.chatID = ""
		cli.lastID = ""
		fmt.Fprintln(cli.out, "Next message starts a new chat")
		return nil

	case "help":
		fmt.Fprintln(cli.out, helpText)
		return nil

	default:
		return fmt.Errorf("unknown command /%s (try /help)", cmd)
	}
}

func (cli *CLI) send(text string) {
	if cli.chatID == "" {
		session, err := cli.chatSvc.CreateChat(cli.ctx, &llmDomain.CreateChatRequest{
			UserID:       cli.userID,
			FirstMessage: text,
		})
		if err != nil {
			fmt.Fprintf(cli.out, "%sFailed to create chat: %v%s\n", colorRed, err, colorReset)
			return
		}
		cli.chatID = session.ID
		cli.logger.Info("chat created", "chat_id", session.ID, "title", session.Title)
	}

	snd, err := cli.chatSvc.BeginSend(cli.ctx, &llmDomain.SendMessageRequest{
		ChatID:   cli.chatID,
		UserID:   cli.userID,
		Text:     text,
		Media:    cli.image,
		Mode:     cli.mode,
		Language: cli.language,
	})
	if err != nil {
		fmt.Fprintf(cli.out, "%s%v%s\n", colorRed, err, colorReset)
		return
	}
	cli.image = nil

	msg, err := snd.Run(cli.ctx, &terminalObserver{out: cli.out})
	if err != nil {
		return
	}
	cli.lastID = msg.ID
}

func (cli *CLI) audio(path string) error {
	if cli.chatID == "" || cli.lastID == "" {
		return errors.New("no reply to speak yet")
	}

	fmt.Fprintf(cli.out, "%sSynthesizing...%s\n", colorBlue, colorReset)
	msg, err := cli.chatSvc.GenerateAudio(cli.ctx, cli.chatID, cli.userID, cli.lastID)
	if err != nil {
		return err
	}

	wav, err := base64.StdEncoding.DecodeString(utils.DataURIPayload(*msg.Audio))
	if err != nil {
		return fmt.Errorf("decode audio: %w", err)
	}
	if path == "" {
		path = "synapse-" + msg.ID + ".wav"
	}
	if err := os.WriteFile(path, wav, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(cli.out, "%sSaved %s (%d bytes)%s\n", colorGreen, path, len(wav), colorReset)
	return nil
}

func (cli *CLI) history() error {
	chats, err := cli.chatSvc.ListChats(cli.ctx, cli.userID)
	if err != nil {
		return err
	}
	if len(chats) == 0 {
		fmt.Fprintln(cli.out, "No chats yet")
		return nil
	}
	for _, c := range chats {
		fmt.Fprintf(cli.out, "%s%s%s  %s\n", colorBlue, c.ID, colorReset, c.Title)
	}
	return nil
}

func (cli *CLI) printMessage(m *chat.Message) {
	color := colorGreen
	if m.Role == chat.RoleUser {
		color = colorCyan
	} else if !m.IsWelcome() {
		cli.lastID = m.ID
	}
	fmt.Fprintf(cli.out, "%s[%s]%s %s\n", color, m.Role, colorReset, m.Content)
}

// imageDataURI reads an image file into a base64 data URI
func imageDataURI(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: usage /image <path>", domain.ErrValidation)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%w: %s is %s, not an image", domain.ErrValidation, path, mime)
	}
	return utils.EncodeDataURI(mime, data), nil
}

// terminalObserver prints fragments as they arrive
type terminalObserver struct {
	out io.Writer
}

func (o *terminalObserver) OnStart(ev *chat.MessageStartEvent) {
	fmt.Fprintf(o.out, "%s[assistant]%s ", colorGreen, colorReset)
}

func (o *terminalObserver) OnDelta(ev *chat.MessageDeltaEvent) {
	fmt.Fprint(o.out, ev.Delta)
}

func (o *terminalObserver) OnComplete(ev *chat.MessageCompleteEvent) {
	fmt.Fprintln(o.out)
}

func (o *terminalObserver) OnError(ev *chat.MessageErrorEvent) {
	fmt.Fprintf(o.out, "\n%sError: %s%s\n", colorRed, ev.Error, colorReset)
}
