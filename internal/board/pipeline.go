// Package board implements the message board core: pseudonymous identity
// and roles, per-seed rate limiting, the moderation command grammar, and
// the bounded post store with positional deletion.
package board

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kalpasnet/kotoba/internal/identity"
	"github.com/kalpasnet/kotoba/internal/models"
)

// Submission is one inbound post request.
type Submission struct {
	Name    string
	Seed    string
	Content string
}

// Result is the outcome of a successful submission: exactly one of Post
// (plain post stored) or Command (moderation command executed) is set.
// Identity is always the actor's derived tag, for the cookie binding.
type Result struct {
	Identity string
	Post     *models.Post
	Command  *CommandResult
}

// Pipeline orchestrates a submission end to end: validation, rate limit,
// identity derivation, then the command-or-plain-post branch.
type Pipeline struct {
	limiter *SeedLimiter
	roles   *RoleRegistry
	store   *PostStore
	topics  *TopicRegister
	words   *WordFilter
	interp  *Interpreter
	log     *zap.Logger
}

func NewPipeline(limiter *SeedLimiter, roles *RoleRegistry, store *PostStore, topics *TopicRegister, words *WordFilter, log *zap.Logger) *Pipeline {
	return &Pipeline{
		limiter: limiter,
		roles:   roles,
		store:   store,
		topics:  topics,
		words:   words,
		interp:  NewInterpreter(store, roles, log),
		log:     log,
	}
}

// Submit processes one post request at the given instant.
func (p *Pipeline) Submit(sub Submission, now time.Time) (*Result, error) {
	if strings.TrimSpace(sub.Name) == "" ||
		strings.TrimSpace(sub.Seed) == "" ||
		strings.TrimSpace(sub.Content) == "" {
		return nil, fmt.Errorf("%w: name, pass and content are all required", ErrValidation)
	}

	// The limiter keys on the raw seed. Checked before anything else so a
	// flooding seed cannot even probe commands.
	if !p.limiter.TryAccept(sub.Seed, now) {
		return nil, fmt.Errorf("%w: wait before posting again", ErrRateLimited)
	}

	tag := identity.Derive(sub.Seed)

	if IsCommand(sub.Content) {
		res, err := p.interp.Execute(ParseCommand(sub.Content), tag)
		if err != nil {
			return nil, err
		}
		return &Result{Identity: tag, Command: res}, nil
	}

	if err := p.words.Screen(sub.Name, sub.Content); err != nil {
		return nil, err
	}

	topic, err := p.topics.Current()
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Name:      sub.Name,
		Content:   sub.Content,
		AuthorTag: tag,
		Topic:     topic,
		CreatedAt: now,
	}
	if err := p.store.Append(post); err != nil {
		return nil, err
	}

	if pruned, err := p.store.PruneToRetentionFloor(); err != nil {
		// The post itself went in; a failed prune is logged, not surfaced.
		p.log.Error("retention prune failed", zap.Error(err))
	} else if pruned > 0 {
		p.log.Info("retention prune", zap.Int("pruned", pruned))
	}

	return &Result{Identity: tag, Post: post}, nil
}

// SetTopic changes the board topic on behalf of an identity tag.
// Requires manager rank or above.
func (p *Pipeline) SetTopic(tag, topic string) error {
	if strings.TrimSpace(topic) == "" {
		return fmt.Errorf("%w: topic is required", ErrValidation)
	}
	if !p.roles.HasAtLeast(tag, RoleManager) {
		return fmt.Errorf("%w: changing the topic requires manager rank", ErrPermission)
	}
	return p.topics.Set(topic)
}
