package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/medprep/neetpg-backend/internal/config"
	"github.com/medprep/neetpg-backend/internal/database"
	"github.com/medprep/neetpg-backend/internal/logger"
	"github.com/medprep/neetpg-backend/internal/model"
	"github.com/medprep/neetpg-backend/internal/repository"
)

// seedQuestion mirrors the question bank export format. Correct answers
// are counted from 1 there and normalized to 0-based on insert.
type seedQuestion struct {
	Text           string   `json:"text"`
	Options        []string `json:"options"`
	CorrectAnswer  int      `json:"correctAnswer"`
	Subject        string   `json:"subject"`
	Module         string   `json:"module"`
	Subtopic       string   `json:"subtopic"`
	Source         string   `json:"source"`
	Difficulty     string   `json:"difficulty"`
	CognitiveSkill string   `json:"cognitiveSkill"`
	Keywords       string   `json:"keywords"`
	ImageURL       *string  `json:"imageUrl"`
}

type seedMnemonic struct {
	Author  string `json:"author"`
	Subject string `json:"subject"`
	Content string `json:"content"`
}

type seedDeck struct {
	Title   string `json:"title"`
	Subject string `json:"subject"`
	Cards   []struct {
		Cue           string   `json:"cue"`
		Answer        string   `json:"answer"`
		HighYieldNote string   `json:"highYieldNote"`
		Subject       string   `json:"subject"`
		Tags          []string `json:"tags"`
	} `json:"cards"`
}

func main() {
	var questionsFile, decksFile, mnemonicsFile string
	flag.StringVar(&questionsFile, "questions", "", "Path to question bank JSON export")
	flag.StringVar(&decksFile, "decks", "", "Path to flashcard deck JSON export")
	flag.StringVar(&mnemonicsFile, "mnemonics", "", "Path to mnemonic JSON export")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	if questionsFile != "" {
		seedQuestions(ctx, questionsFile, repository.NewQuestionRepository(pool))
	}
	if decksFile != "" {
		seedDecks(ctx, decksFile, repository.NewFlashcardRepository(pool))
	}
	if mnemonicsFile != "" {
		seedMnemonics(ctx, mnemonicsFile, repository.NewMnemonicRepository(pool))
	}
	if questionsFile == "" && decksFile == "" && mnemonicsFile == "" {
		fmt.Println("Nothing to do. Pass -questions, -decks and/or -mnemonics.")
		flag.PrintDefaults()
	}
}

func seedQuestions(ctx context.Context, path string, repo *repository.QuestionRepository) {
	raw, err := os.ReadFile(path)
	if err != nil {
		fatal("read questions file: %v", err)
	}

	var seeds []seedQuestion
	if err := json.Unmarshal(raw, &seeds); err != nil {
		fatal("parse questions file: %v", err)
	}

	questions := make([]model.Question, 0, len(seeds))
	for i, s := range seeds {
		if len(s.Options) < 2 {
			fatal("question %d: needs at least 2 options", i)
		}
		if s.CorrectAnswer < 1 || s.CorrectAnswer > len(s.Options) {
			fatal("question %d: correctAnswer %d out of range 1..%d", i, s.CorrectAnswer, len(s.Options))
		}

		questions = append(questions, model.Question{
			ID:             uuid.New(),
			Text:           s.Text,
			Options:        s.Options,
			CorrectOption:  s.CorrectAnswer - 1,
			Subject:        s.Subject,
			Module:         s.Module,
			Subtopic:       s.Subtopic,
			Source:         s.Source,
			Difficulty:     s.Difficulty,
			CognitiveSkill: s.CognitiveSkill,
			Keywords:       s.Keywords,
			ImageURL:       s.ImageURL,
		})
	}

	if err := repo.BulkInsert(ctx, questions); err != nil {
		fatal("insert questions: %v", err)
	}
	fmt.Printf("Seeded %d questions\n", len(questions))
}

func seedDecks(ctx context.Context, path string, repo *repository.FlashcardRepository) {
	raw, err := os.ReadFile(path)
	if err != nil {
		fatal("read decks file: %v", err)
	}

	var decks []seedDeck
	if err := json.Unmarshal(raw, &decks); err != nil {
		fatal("parse decks file: %v", err)
	}

	total := 0
	for _, d := range decks {
		deck := &model.FlashcardDeck{Title: d.Title, Subject: d.Subject}
		if err := repo.CreateDeck(ctx, deck); err != nil {
			fatal("create deck %q: %v", d.Title, err)
		}

		for _, c := range d.Cards {
			card := &model.Flashcard{
				DeckID:        deck.ID,
				Cue:           c.Cue,
				Answer:        c.Answer,
				HighYieldNote: c.HighYieldNote,
				Subject:       c.Subject,
				Tags:          c.Tags,
			}
			if err := repo.CreateCard(ctx, card); err != nil {
				fatal("create card in deck %q: %v", d.Title, err)
			}
			total++
		}
	}
	fmt.Printf("Seeded %d decks with %d cards\n", len(decks), total)
}

func seedMnemonics(ctx context.Context, path string, repo *repository.MnemonicRepository) {
	raw, err := os.ReadFile(path)
	if err != nil {
		fatal("read mnemonics file: %v", err)
	}

	var seeds []seedMnemonic
	if err := json.Unmarshal(raw, &seeds); err != nil {
		fatal("parse mnemonics file: %v", err)
	}

	for i, s := range seeds {
		m := &model.Mnemonic{
			UserID:  "seed",
			Author:  s.Author,
			Subject: s.Subject,
			Content: s.Content,
		}
		if err := repo.Create(ctx, m); err != nil {
			fatal("create mnemonic %d: %v", i, err)
		}
	}
	fmt.Printf("Seeded %d mnemonics\n", len(seeds))
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
