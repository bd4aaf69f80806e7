package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mkoreshkov/veritrain/internal/format"
	"github.com/mkoreshkov/veritrain/internal/model"
)

// GenerateSession produces the full training session for a topic: lesson,
// scenario and quiz generated concurrently, plus a capstone section for
// capstone modules. Any section failure fails the session; partial sessions
// are never returned.
func (o *Orchestrator) GenerateSession(ctx context.Context, topic model.TopicDescriptor) (*model.SessionContent, error) {
	var (
		lesson   Section[model.LessonContent]
		scenario Section[model.ScenarioContent]
		quiz     Section[model.QuizContent]
		capstone Section[model.CapstoneContent]
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lesson, err = o.Lesson(gctx, topic)
		return err
	})
	g.Go(func() error {
		var err error
		scenario, err = o.Scenario(gctx, topic)
		return err
	})
	g.Go(func() error {
		var err error
		quiz, err = o.Quiz(gctx, topic)
		return err
	})
	if topic.ModuleType == model.ModuleCapstone {
		g.Go(func() error {
			var err error
			capstone, err = o.Capstone(gctx, topic)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lesson.Content.VerificationMeta = lesson.Meta()
	scenario.Content.VerificationMeta = scenario.Meta()
	quiz.Content.VerificationMeta = quiz.Meta()

	// Deterministic quiz checks are advisory. The content ships either way;
	// defects show up in the logs for curriculum review.
	for _, issue := range format.ValidateQuiz(topic.ID, quiz.Content) {
		o.log.Warn("quiz quality issue",
			zap.String("topic", topic.ID),
			zap.String("code", issue.Code),
			zap.String("detail", issue.Message))
	}

	session := &model.SessionContent{
		TopicID:       topic.ID,
		Domain:        topic.Domain,
		Title:         topic.Title,
		Tier:          topic.Tier,
		ModuleType:    topic.ModuleType,
		CompetencyIDs: topic.CompetencyIDs,
		Prerequisites: topic.Prerequisites,
		Lesson:        &lesson.Content,
		Scenario:      &scenario.Content,
		Quiz:          &quiz.Content,
		GeneratedAt:   time.Now().UTC(),
	}
	if topic.ModuleType == model.ModuleCapstone {
		capstone.Content.VerificationMeta = capstone.Meta()
		session.Capstone = &capstone.Content
	}
	return session, nil
}
