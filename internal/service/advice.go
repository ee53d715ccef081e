package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/sashabaranov/go-openai"
	"github.com/yourname/sleeplog/internal"
)

type Recommendation struct {
	Recommendation string `json:"recommendation"`
	Reason         string `json:"reason"`
	Action         string `json:"action"`
	Source         string `json:"source"`
}

// chatCompleter is the part of *openai.Client the advisor needs.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Advisor turns a Summary into sleep advice. Without a model client it only
// serves the built-in advice; with one, model answers are cached per summary
// state and any failure falls back to the built-in advice.
type Advisor struct {
	client chatCompleter
	model  string
	cache  *ttlcache.Cache[string, Recommendation]
	logger internal.Logger
}

func NewAdvisor(token, model string, ttl time.Duration, logger internal.Logger) *Advisor {
	var client chatCompleter
	if token != "" {
		client = openai.NewClient(token)
	}
	return newAdvisor(client, model, ttl, logger)
}

func newAdvisor(client chatCompleter, model string, ttl time.Duration, logger internal.Logger) *Advisor {
	return &Advisor{
		client: client,
		model:  model,
		cache: ttlcache.New(
			ttlcache.WithTTL[string, Recommendation](ttl),
			ttlcache.WithDisableTouchOnHit[string, Recommendation](),
			ttlcache.WithCapacity[string, Recommendation](128),
		),
		logger: logger,
	}
}

func (a *Advisor) Recommend(ctx context.Context, sum Summary) Recommendation {
	if a.client == nil {
		return StaticRecommendation(sum)
	}

	key := adviceKey(sum)
	if item := a.cache.Get(key); item != nil {
		return item.Value()
	}

	rec, err := a.ask(ctx, sum)
	if err != nil {
		a.logger.Warnf("advice: model request failed, using built-in advice: %v", err)
		return StaticRecommendation(sum)
	}
	a.cache.Set(key, rec, ttlcache.DefaultTTL)
	return rec
}

func adviceKey(sum Summary) string {
	latest := ""
	if sum.Latest != nil {
		latest = sum.Latest.ID
	}
	return fmt.Sprintf("%s|%d|%s", latest, sum.Streak, sum.Label)
}

func (a *Advisor) ask(ctx context.Context, sum Summary) (Recommendation, error) {
	var b strings.Builder
	b.WriteString("Give one short, practical sleep tip in a single sentence.\n")
	fmt.Fprintf(&b, "Last night: %s.\n", sum.Label)
	if sum.LatestHours != nil {
		fmt.Fprintf(&b, "Hours slept: %.1f.\n", *sum.LatestHours)
	}
	fmt.Fprintf(&b, "Consecutive days logged: %d.\n", sum.Streak)

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are a concise sleep coach."},
			{Role: openai.ChatMessageRoleUser, Content: b.String()},
		},
		MaxTokens: 120,
	})
	if err != nil {
		return Recommendation{}, err
	}
	if len(resp.Choices) == 0 {
		return Recommendation{}, errors.New("empty response")
	}
	static := StaticRecommendation(sum)
	return Recommendation{
		Recommendation: strings.TrimSpace(resp.Choices[0].Message.Content),
		Reason:         static.Reason,
		Action:         static.Action,
		Source:         a.model,
	}, nil
}

// StaticRecommendation picks built-in advice for the latest rest label.
func StaticRecommendation(sum Summary) Recommendation {
	rec := Recommendation{Source: "built-in"}
	switch sum.Label {
	case "Well rested":
		rec.Recommendation = "Keep doing what you are doing."
		rec.Reason = "You slept eight hours or more last night."
		rec.Action = "Go to bed at the same time tonight."
	case "Okay night":
		rec.Recommendation = "Aim for a little more sleep tonight."
		rec.Reason = "Six to eight hours is fine, but most adults feel best with more."
		rec.Action = "Start winding down 30 minutes earlier."
	case "Short sleep", "Running on fumes":
		rec.Recommendation = "Prioritise recovery sleep."
		rec.Reason = "Short nights add up to sleep debt."
		rec.Action = "Skip caffeine after noon and get to bed early."
	default:
		rec.Recommendation = "Try to maintain a consistent sleep schedule."
		rec.Reason = "Regular sleep improves quality."
		rec.Action = "Go to bed and wake up at the same time every day."
	}
	return rec
}
