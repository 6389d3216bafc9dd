// The notifier posts complaint lifecycle events to ward-ops Discord
// channels. It tails the redis stream written by the API so the web process
// never blocks on Discord.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/janmitra/civic-complaints/src/api/data"
)

type event struct {
	Event    string
	ID       uint64
	WardID   int
	Zone     string
	Category string
	Status   string
}

type bot struct {
	session      *discordgo.Session
	rdb          *redis.Client
	defaultChan  string
	zoneChannels map[string]string
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, relying on environment")
	}

	token := os.Getenv("DISCORD_TOKEN")
	channel := os.Getenv("DISCORD_CHANNEL_ID")
	if token == "" || channel == "" {
		log.Fatal("DISCORD_TOKEN and DISCORD_CHANNEL_ID must be set")
	}
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://127.0.0.1:6379/0"
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		log.Fatalf("discord session: %v", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages
	session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("logged in as %v#%v", s.State.User.Username, s.State.User.Discriminator)
	})
	if err := session.Open(); err != nil {
		log.Fatalf("discord open: %v", err)
	}
	defer session.Close()

	b := &bot{
		session:      session,
		rdb:          data.MustRedis(redisURL),
		defaultChan:  channel,
		zoneChannels: parseZoneChannels(os.Getenv("DISCORD_ZONE_CHANNELS")),
	}

	ctx, cancel := context.WithCancel(context.Background())
	go b.run(ctx)
	log.Println("notifier tailing complaint events")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	cancel()
}

// parseZoneChannels reads "Rohini=123456,West=789012" style overrides.
func parseZoneChannels(raw string) map[string]string {
	out := map[string]string{}
	for _, pair := range strings.Split(raw, ",") {
		if k, v, ok := strings.Cut(strings.TrimSpace(pair), "="); ok && k != "" && v != "" {
			out[k] = v
		}
	}
	return out
}

func (b *bot) run(ctx context.Context) {
	lastID := "$"
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		streams, err := b.rdb.XRead(ctx, &redis.XReadArgs{
			Streams: []string{data.StreamEvents, lastID},
			Count:   10,
			Block:   5 * time.Second,
		}).Result()
		if err != nil {
			if err != redis.Nil && ctx.Err() == nil {
				log.Printf("read stream: %v", err)
				time.Sleep(time.Second)
			}
			continue
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				b.handle(parseEvent(msg.Values))
				lastID = msg.ID
			}
		}
	}
}

func parseEvent(values map[string]interface{}) event {
	var e event
	if v, ok := values["event"].(string); ok {
		e.Event = v
	}
	if v, ok := values["id"].(string); ok {
		e.ID, _ = strconv.ParseUint(v, 10, 64)
	}
	if v, ok := values["ward_id"].(string); ok {
		e.WardID, _ = strconv.Atoi(v)
	}
	if v, ok := values["zone"].(string); ok {
		e.Zone = v
	}
	if v, ok := values["category"].(string); ok {
		e.Category = v
	}
	if v, ok := values["status"].(string); ok {
		e.Status = v
	}
	return e
}

func (b *bot) handle(e event) {
	if e.ID == 0 {
		return
	}
	channel := b.defaultChan
	if ch, ok := b.zoneChannels[e.Zone]; ok {
		channel = ch
	}

	var text string
	switch e.Event {
	case "created":
		text = fmt.Sprintf("New %s complaint #%d in ward %d (%s zone)", e.Category, e.ID, e.WardID, e.Zone)
	case "status_changed":
		text = fmt.Sprintf("Complaint #%d in ward %d is now %s", e.ID, e.WardID, e.Status)
	default:
		return
	}
	if _, err := b.session.ChannelMessageSend(channel, text); err != nil {
		log.Printf("send to %s: %v", channel, err)
	}
}
