// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"parlor/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumThreads  int
	NumComments int
	NumChat     int
	ShouldClean bool
}

var (
	threadTags = []string{
		"general", "random", "tech", "music", "movies", "gaming",
		"food", "art", "science", "sports", "news", "meta",
	}

	chatAuthors = []string{
		"anon", "anon", "anon", "lurker", "nightowl", "patron", "regular",
	}

	emojis = []string{"👍", "🔥", "😂", "💀", "🤔", "❤️"}
)

// Seeder builds domain entities and persists them to the database.
type Seeder struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewSeeder creates a new Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll deletes every seeded record. Order matters for FK-less engines
// too: leaves first, threads last.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	for _, model := range []any{
		&models.PollVote{}, &models.PollOption{}, &models.Poll{},
		&models.Vote{}, &models.Reaction{}, &models.Report{},
		&models.Comment{}, &models.ChatMessage{}, &models.Thread{},
	} {
		if err := s.db.Where("1 = 1").Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

// Seed populates the database with demo data.
func (s *Seeder) Seed(opts Options) error {
	log.Printf("Seeding %d threads, %d comments, %d chat messages...",
		opts.NumThreads, opts.NumComments, opts.NumChat)

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	threads, err := s.createThreads(opts.NumThreads)
	if err != nil {
		return fmt.Errorf("seed threads: %w", err)
	}
	log.Printf("✓ %d threads created", len(threads))

	comments, err := s.createComments(threads, opts.NumComments)
	if err != nil {
		return fmt.Errorf("seed comments: %w", err)
	}
	log.Printf("✓ %d comments created", len(comments))

	if err := s.createVotesAndReactions(threads, comments); err != nil {
		return fmt.Errorf("seed votes: %w", err)
	}
	log.Println("✓ votes and reactions created")

	if err := s.createPolls(threads); err != nil {
		return fmt.Errorf("seed polls: %w", err)
	}
	log.Println("✓ polls created")

	if err := s.createChat(opts.NumChat); err != nil {
		return fmt.Errorf("seed chat: %w", err)
	}
	log.Printf("✓ %d chat messages created", opts.NumChat)

	return nil
}

func (s *Seeder) createThreads(n int) ([]*models.Thread, error) {
	threads := make([]*models.Thread, 0, n)
	now := time.Now().Unix()
	for i := 0; i < n; i++ {
		tags := make(models.StringList, 0, 2)
		for _, tag := range pickN(s.rand, threadTags, 1+s.rand.Intn(2)) {
			tags = append(tags, tag)
		}
		thread := &models.Thread{
			ID:        uuid.NewString(),
			Title:     gofakeit.Sentence(4 + s.rand.Intn(6)),
			Body:      gofakeit.Paragraph(1, 3, 8, "\n"),
			Tags:      tags,
			CreatedAt: now - int64(s.rand.Intn(7*24*3600)),
		}
		if s.rand.Intn(3) == 0 {
			thread.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/600", uuid.NewString())
			thread.ThumbURL = fmt.Sprintf("https://picsum.photos/seed/%s/200/150", thread.ID)
		}
		threads = append(threads, thread)
	}
	if err := s.db.Create(&threads).Error; err != nil {
		return nil, err
	}
	return threads, nil
}

func (s *Seeder) createComments(threads []*models.Thread, n int) ([]*models.Comment, error) {
	if len(threads) == 0 || n == 0 {
		return nil, nil
	}
	comments := make([]*models.Comment, 0, n)
	for i := 0; i < n; i++ {
		thread := threads[s.rand.Intn(len(threads))]
		comment := &models.Comment{
			ID:        uuid.NewString(),
			ThreadID:  thread.ID,
			Body:      gofakeit.Sentence(5 + s.rand.Intn(15)),
			CreatedAt: thread.CreatedAt + int64(s.rand.Intn(24*3600)),
		}
		// Occasionally reply to an earlier comment on the same thread.
		if s.rand.Intn(4) == 0 {
			for _, earlier := range comments {
				if earlier.ThreadID == thread.ID {
					parentID := earlier.ID
					comment.ParentID = &parentID
					break
				}
			}
		}
		comments = append(comments, comment)
	}
	if err := s.db.Create(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *Seeder) createVotesAndReactions(threads []*models.Thread, comments []*models.Comment) error {
	now := time.Now().Unix()
	for _, thread := range threads {
		up, down := s.rand.Intn(20), s.rand.Intn(8)
		for i := 0; i < up+down; i++ {
			dir := models.VoteUp
			if i >= up {
				dir = models.VoteDown
			}
			vote := &models.Vote{
				ID:         uuid.NewString(),
				TargetType: models.TargetThread,
				TargetID:   thread.ID,
				Vote:       dir,
				VoterID:    fmt.Sprintf("seed-voter-%d", s.rand.Intn(500)),
				CreatedAt:  now,
			}
			if err := s.db.Create(vote).Error; err != nil {
				return err
			}
		}
		thread.Upvotes = up
		thread.Downvotes = down
		thread.Score = up - down
		if err := s.db.Save(thread).Error; err != nil {
			return err
		}

		for i := 0; i < s.rand.Intn(4); i++ {
			reaction := &models.Reaction{
				ID:         uuid.NewString(),
				TargetType: models.TargetThread,
				TargetID:   thread.ID,
				Emoji:      emojis[s.rand.Intn(len(emojis))],
				VoterID:    fmt.Sprintf("seed-voter-%d", s.rand.Intn(500)),
				CreatedAt:  now,
			}
			if err := s.db.Create(reaction).Error; err != nil {
				return err
			}
		}
	}

	for _, comment := range comments {
		score := s.rand.Intn(10) - 2
		comment.Score = score
		if err := s.db.Save(comment).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) createPolls(threads []*models.Thread) error {
	now := time.Now().Unix()
	for _, thread := range threads {
		if s.rand.Intn(5) != 0 {
			continue
		}
		poll := &models.Poll{
			ID:        uuid.NewString(),
			ThreadID:  thread.ID,
			Question:  gofakeit.Question(),
			CreatedAt: thread.CreatedAt,
		}
		numOptions := 2 + s.rand.Intn(3)
		for i := 0; i < numOptions; i++ {
			poll.Options = append(poll.Options, models.PollOption{
				ID:       uuid.NewString(),
				PollID:   poll.ID,
				Label:    gofakeit.Word(),
				Position: i,
			})
		}
		if err := s.db.Create(poll).Error; err != nil {
			return err
		}
		for i := 0; i < s.rand.Intn(15); i++ {
			ballot := &models.PollVote{
				ID:        uuid.NewString(),
				PollID:    poll.ID,
				OptionID:  poll.Options[s.rand.Intn(len(poll.Options))].ID,
				VoterID:   fmt.Sprintf("seed-voter-%d", s.rand.Intn(500)),
				CreatedAt: now,
			}
			if err := s.db.Create(ballot).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) createChat(n int) error {
	if n == 0 {
		return nil
	}
	now := time.Now().Unix()
	messages := make([]*models.ChatMessage, 0, n)
	for i := 0; i < n; i++ {
		messages = append(messages, &models.ChatMessage{
			ID:        uuid.NewString(),
			Author:    chatAuthors[s.rand.Intn(len(chatAuthors))],
			Text:      gofakeit.Sentence(3 + s.rand.Intn(10)),
			CreatedAt: now - int64(n-i), // oldest first
		})
	}
	return s.db.Create(&messages).Error
}

func pickN(r *rand.Rand, pool []string, n int) []string {
	out := make([]string, 0, n)
	seen := map[string]bool{}
	for len(out) < n {
		candidate := pool[r.Intn(len(pool))]
		if !seen[candidate] {
			seen[candidate] = true
			out = append(out, candidate)
		}
	}
	return out
}
