package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kalpasnet/kotoba/internal/board"
	"github.com/kalpasnet/kotoba/internal/identity"
	"github.com/kalpasnet/kotoba/internal/models"
	"github.com/kalpasnet/kotoba/internal/ws"
)

// identityCookie binds the caller's last derived tag to the browser so a
// later /topic request can authorize without resending the seed.
const (
	identityCookie       = "last_posted_id"
	identityCookieMaxAge = 7 * 24 * 60 * 60 // seconds
)

// Timestamps render in JST regardless of server locale; the board's
// audience reads Japanese time.
var jst = time.FixedZone("JST", 9*60*60)

const timestampLayout = "2006/01/02 15:04:05"

// --- Structs for request binding ---

type SubmitInput struct {
	Name    string `json:"name" binding:"required"`
	Pass    string `json:"pass" binding:"required"`
	Content string `json:"content" binding:"required,max=1000"`
}

type TopicInput struct {
	Topic string `json:"topic" binding:"required,max=100"`
	Pass  string `json:"pass"`
}

// postView is a Post shaped for the page: timestamp pre-rendered, seed
// never present.
type postView struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Content   string `json:"content"`
	AuthorTag string `json:"authorTag"`
	Timestamp string `json:"timestamp"`
}

func viewOf(p *models.Post) postView {
	return postView{
		ID:        p.ID,
		Name:      p.Name,
		Content:   p.Content,
		AuthorTag: p.AuthorTag,
		Timestamp: p.CreatedAt.In(jst).Format(timestampLayout),
	}
}

// Env carries handler dependencies.
type Env struct {
	Pipeline *board.Pipeline
	Store    *board.PostStore
	Topics   *board.TopicRegister
	Roles    *board.RoleRegistry
	Hub      *ws.Hub
	Log      *zap.Logger
}

// GetBoard serves the current topic and the ordered post listing.
func (e *Env) GetBoard(c *gin.Context) {
	topic, err := e.Topics.Current()
	if err != nil {
		e.fail(c, err)
		return
	}
	posts, err := e.Store.ListOrdered()
	if err != nil {
		e.fail(c, err)
		return
	}
	views := make([]postView, 0, len(posts))
	for i := range posts {
		views = append(views, viewOf(&posts[i]))
	}
	c.JSON(http.StatusOK, gin.H{"topic": topic, "posts": views})
}

// Submit handles a post request: either a moderation command or a plain
// post. On success the identity cookie is (re)set for the caller.
func (e *Env) Submit(c *gin.Context) {
	var input SubmitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	res, err := e.Pipeline.Submit(board.Submission{
		Name:    input.Name,
		Seed:    input.Pass,
		Content: input.Content,
	}, time.Now())
	if err != nil {
		e.fail(c, err)
		return
	}

	c.SetCookie(identityCookie, res.Identity, identityCookieMaxAge, "/", "", false, true)

	if res.Command != nil {
		switch res.Command.Command {
		case "clear":
			e.Hub.BroadcastEvent(ws.Event{Type: "clear"})
		default:
			e.Hub.BroadcastEvent(ws.Event{Type: "delete", Data: gin.H{"deleted": res.Command.Deleted}})
		}
		c.JSON(http.StatusOK, res.Command)
		return
	}

	view := viewOf(res.Post)
	e.Hub.BroadcastEvent(ws.Event{Type: "new_post", Data: view})
	c.JSON(http.StatusCreated, view)
}

// SetTopic changes the board topic. The authorizing identity comes from
// the pass field, or from the identity cookie of a prior post when pass
// is absent.
func (e *Env) SetTopic(c *gin.Context) {
	var input TopicInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var tag string
	if input.Pass != "" {
		tag = identity.Derive(input.Pass)
	} else if cookie, err := c.Cookie(identityCookie); err == nil && cookie != "" {
		tag = cookie
	} else {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No pass given and no identity cookie present"})
		return
	}

	if err := e.Pipeline.SetTopic(tag, input.Topic); err != nil {
		e.fail(c, err)
		return
	}

	e.Hub.BroadcastEvent(ws.Event{Type: "topic", Data: gin.H{"topic": input.Topic}})
	c.JSON(http.StatusOK, gin.H{"topic": input.Topic})
}

// GetAdmins is a debug listing of the registered administrator set.
func (e *Env) GetAdmins(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"admins": e.Roles.AdminTags()})
}

// GetRoles is a debug listing of all identity→role assignments.
func (e *Env) GetRoles(c *gin.Context) {
	assignments, err := e.Roles.Assignments()
	if err != nil {
		e.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roles": assignments})
}

// Health is a liveness probe.
func (e *Env) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// fail maps core errors onto status codes. Validation, permission, rate
// limit and not-found messages go back verbatim; anything else is a
// storage failure whose detail stays in the log.
func (e *Env) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, board.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, board.ErrPermission):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, board.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, board.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	default:
		e.Log.Error("storage failure", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
	}
}
