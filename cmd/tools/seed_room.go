package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"time"

	"presence-chat/domain"
	"presence-chat/repositories"
	"presence-chat/storage"

	"github.com/mama165/sdk-go/logs"
)

// Seeds a store with a small conversation, handy to try the inspector or a client.
func main() {
	dbPath := flag.String("db", "./data/badger", "Path to badger DB")
	flag.Parse()

	logger := logs.GetLoggerFromLevel(slog.LevelInfo)
	handle := storage.NewHandle(logger)
	if err := handle.Open(storage.Options(*dbPath)); err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer handle.Close()

	participants := repositories.NewParticipantRepository(handle, logger)
	messages := repositories.NewMessageRepository(handle, logger)
	defer messages.Release()

	now := time.Now().UTC()
	for _, name := range []string{"Ana", "Bia", "Carla"} {
		if _, err := participants.Register(name, now); err != nil {
			log.Fatalf("Register %s: %v", name, err)
		}
		mustAppend(messages, domain.NewStatusMessage(name, domain.JoinedText, now))
	}
	mustAppend(messages, domain.Message{From: "Ana", To: domain.Broadcast, Text: "oi, tudo bem?", Kind: domain.KindBroadcast, Time: now})
	mustAppend(messages, domain.Message{From: "Bia", To: "Ana", Text: "tudo e você?", Kind: domain.KindTargeted, Time: now})
	mustAppend(messages, domain.Message{From: "Carla", To: domain.Broadcast, Text: "bom dia", Kind: domain.KindBroadcast, Time: now})

	fmt.Println("Room seeded in", *dbPath)
}

func mustAppend(messages repositories.MessageRepository, message domain.Message) {
	if _, err := messages.Append(message); err != nil {
		log.Fatalf("Append from %s: %v", message.From, err)
	}
}
