package board

import (
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kalpasnet/kotoba/internal/models"
)

// Role is a permission tier. Higher values strictly dominate lower ones
// for every gated operation.
type Role int

const (
	RoleDefault Role = iota
	RoleSpeaker
	RoleManager
	RoleModerator
	RoleSummit
	RoleAdmin
)

var roleNames = map[Role]string{
	RoleDefault:   "default",
	RoleSpeaker:   "speaker",
	RoleManager:   "manager",
	RoleModerator: "moderator",
	RoleSummit:    "summit",
	RoleAdmin:     "admin",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "default"
}

// ParseRole maps a stored role name to its tier. Unknown names fall back
// to the default tier rather than failing; absence is not an error.
func ParseRole(name string) Role {
	for role, n := range roleNames {
		if n == name {
			return role
		}
	}
	return RoleDefault
}

// RoleRegistry answers permission questions about identity tags. Role
// assignments live in the database and are looked up on every check —
// no cross-request caching, so out-of-band changes take effect
// immediately.
type RoleRegistry struct {
	db     *gorm.DB
	admins map[string]struct{} // legacy flat administrator set
	log    *zap.Logger
}

// NewRoleRegistry builds a registry over the role_assignments table.
// adminTags is the legacy flat admin set from configuration.
func NewRoleRegistry(db *gorm.DB, adminTags []string, log *zap.Logger) *RoleRegistry {
	admins := make(map[string]struct{}, len(adminTags))
	for _, tag := range adminTags {
		admins[tag] = struct{}{}
	}
	return &RoleRegistry{db: db, admins: admins, log: log}
}

// RoleOf returns the assigned role for a tag, or the default role if the
// tag has no assignment. Storage failures also degrade to default so a
// permission check can never grant by accident.
func (r *RoleRegistry) RoleOf(tag string) Role {
	var ra models.RoleAssignment
	err := r.db.Where("tag = ?", tag).First(&ra).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Error("role lookup failed", zap.String("tag", tag), zap.Error(err))
		}
		return RoleDefault
	}
	return ParseRole(ra.Role)
}

// HasAtLeast reports whether the tag's rank meets or exceeds required.
func (r *RoleRegistry) HasAtLeast(tag string, required Role) bool {
	return r.RoleOf(tag) >= required
}

// IsRegisteredAdmin checks the legacy flat administrator set, kept for
// compatibility with the pre-hierarchy authorization model. A tag with
// an admin role assignment also qualifies.
func (r *RoleRegistry) IsRegisteredAdmin(tag string) bool {
	if _, ok := r.admins[tag]; ok {
		return true
	}
	return r.HasAtLeast(tag, RoleAdmin)
}

// AdminTags lists the legacy administrator set, sorted for stable output.
func (r *RoleRegistry) AdminTags() []string {
	tags := make([]string, 0, len(r.admins))
	for tag := range r.admins {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Assignments lists every identity→role assignment.
func (r *RoleRegistry) Assignments() ([]models.RoleAssignment, error) {
	var out []models.RoleAssignment
	err := r.db.Order("tag").Find(&out).Error
	return out, err
}

// Assign upserts a role assignment. Used by the startup bootstrap; the
// board itself never writes assignments while serving.
func (r *RoleRegistry) Assign(tag string, role Role) error {
	ra := models.RoleAssignment{Tag: tag, Role: role.String(), CreatedAt: time.Now()}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tag"}},
		DoUpdates: clause.AssignmentColumns([]string{"role"}),
	}).Create(&ra).Error
}
