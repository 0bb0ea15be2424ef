package lessors

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"courtly/internal/app/commands"
	"courtly/internal/app/dto"
	handlersupport "courtly/internal/app/handlers/support"
	"courtly/internal/app/policies"
	"courtly/internal/app/uow"
	domainlessors "courtly/internal/domain/lessors"
	"courtly/internal/domain/shared/errs"
)

const uploadImageKey = "lessor.image.upload"

var (
	ErrImageRequired     = errs.Validation("Image file is required")
	ErrUnsupportedImage  = errs.Validation("Only jpeg, png and webp images are accepted")
	ErrInvalidImageOwner = errs.Validation("Image target must be logo, facility or court")
)

// ImageTarget says where an uploaded image is attached.
type ImageTarget string

const (
	TargetNone     ImageTarget = ""
	TargetLogo     ImageTarget = "logo"
	TargetFacility ImageTarget = "facility"
	TargetCourt    ImageTarget = "court"
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type UploadImageCommand struct {
	Email       string
	Filename    string
	ContentType string
	Body        io.Reader
	Target      ImageTarget
	FacilityID  string
	CourtID     string
}

func (c UploadImageCommand) Key() string { return uploadImageKey }

func (c UploadImageCommand) AllowedRoles() []string { return lessorOnly }

func (c UploadImageCommand) Validate() error {
	if c.Body == nil {
		return ErrImageRequired
	}
	if _, ok := allowedImageTypes[strings.ToLower(c.ContentType)]; !ok {
		return ErrUnsupportedImage
	}
	switch c.Target {
	case TargetNone, TargetLogo:
	case TargetFacility:
		if c.FacilityID == "" {
			return ErrInvalidImageOwner
		}
	case TargetCourt:
		if c.FacilityID == "" || c.CourtID == "" {
			return ErrInvalidImageOwner
		}
	default:
		return ErrInvalidImageOwner
	}
	return nil
}

type UploadImageHandler struct {
	UoWFactory uow.UoWFactory
	Images     policies.ImageStore
	Clock      func() time.Time
}

func (h *UploadImageHandler) Handle(ctx context.Context, cmd UploadImageCommand) (*dto.UploadedImage, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	contentType := strings.ToLower(cmd.ContentType)
	var result dto.UploadedImage
	_, err := mutateLessor(ctx, h.UoWFactory, cmd.Email, func(ctx context.Context, _ uow.UnitOfWork, l *domainlessors.Lessor) error {
		switch cmd.Target {
		case TargetFacility:
			if _, err := l.Facility(domainlessors.FacilityID(cmd.FacilityID)); err != nil {
				return err
			}
		case TargetCourt:
			if _, err := l.Court(domainlessors.FacilityID(cmd.FacilityID), domainlessors.CourtID(cmd.CourtID)); err != nil {
				return err
			}
		}
		ext := strings.ToLower(path.Ext(cmd.Filename))
		if ext == "" {
			ext = allowedImageTypes[contentType]
		}
		key := path.Join("lessors", string(l.ID), uuid.NewString()+ext)
		url, err := h.Images.Upload(ctx, key, cmd.Body, contentType)
		if err != nil {
			return err
		}
		result = dto.UploadedImage{URL: url, Key: key}
		now := handlersupport.Now(h.Clock)
		switch cmd.Target {
		case TargetLogo:
			l.ApplyProfile(domainlessors.ProfilePatch{Logo: &url}, now)
		case TargetFacility:
			_, err = l.UpdateFacility(domainlessors.FacilityID(cmd.FacilityID), domainlessors.FacilityPatch{Image: &url}, now)
		case TargetCourt:
			_, err = l.UpdateCourt(domainlessors.FacilityID(cmd.FacilityID), domainlessors.CourtID(cmd.CourtID), domainlessors.CourtPatch{AppendImage: url}, now)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

var _ commands.Handler[UploadImageCommand, *dto.UploadedImage] = (*UploadImageHandler)(nil)
