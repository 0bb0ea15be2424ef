package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlessors "courtly/internal/domain/lessors"
	"courtly/internal/domain/shared/geo"
	"courtly/internal/domain/shared/status"
)

type LessorRepository struct {
	col *mongo.Collection
}

func NewLessorRepository(db *mongo.Database) *LessorRepository {
	return &LessorRepository{col: db.Collection(collectionLessors)}
}

func (r *LessorRepository) ByID(ctx context.Context, id domainlessors.LessorID) (*domainlessors.Lessor, error) {
	return r.findOne(ctx, bson.M{"_id": string(id)})
}

func (r *LessorRepository) ByEmail(ctx context.Context, email string) (*domainlessors.Lessor, error) {
	return r.findOne(ctx, bson.M{"email": domainlessors.NormalizeEmail(email)})
}

func (r *LessorRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"phone": strings.TrimSpace(phone)}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("mongo: lookup lessor phone: %w", err)
	}
	return n > 0, nil
}

func (r *LessorRepository) Save(ctx context.Context, l *domainlessors.Lessor) error {
	doc := newLessorDocument(l)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if strings.Contains(err.Error(), "uniq_phone") {
				return domainlessors.ErrPhoneTaken
			}
			return domainlessors.ErrEmailTaken
		}
		return fmt.Errorf("mongo: save lessor: %w", err)
	}
	return nil
}

func (r *LessorRepository) List(ctx context.Context, f domainlessors.ListFilter) ([]*domainlessors.Lessor, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: list lessors: %w", err)
	}
	var docs []lessorDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decode lessors: %w", err)
	}
	out := make([]*domainlessors.Lessor, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toAggregate())
	}
	return out, nil
}

func (r *LessorRepository) Delete(ctx context.Context, id domainlessors.LessorID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return fmt.Errorf("mongo: delete lessor: %w", err)
	}
	if res.DeletedCount == 0 {
		return domainlessors.ErrLessorNotFound
	}
	return nil
}

func (r *LessorRepository) findOne(ctx context.Context, filter bson.M) (*domainlessors.Lessor, error) {
	var doc lessorDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainlessors.ErrLessorNotFound
		}
		return nil, fmt.Errorf("mongo: load lessor: %w", err)
	}
	return doc.toAggregate(), nil
}

// pointDocument is a GeoJSON point, the shape 2dsphere indexes expect.
type pointDocument struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

type addressDocument struct {
	Street string `bson:"street,omitempty"`
	City   string `bson:"city,omitempty"`
	State  string `bson:"state,omitempty"`
}

type courtDocument struct {
	ID          string   `bson:"id"`
	Name        string   `bson:"name"`
	Description string   `bson:"description,omitempty"`
	Images      []string `bson:"images,omitempty"`
}

type facilityDocument struct {
	ID          string          `bson:"id"`
	Name        string          `bson:"name"`
	Description string          `bson:"description,omitempty"`
	Price       float64         `bson:"price"`
	Image       string          `bson:"image,omitempty"`
	Courts      []courtDocument `bson:"courts"`
}

type lessorDocument struct {
	ID              string             `bson:"_id"`
	FirstName       string             `bson:"first_name"`
	LastName        string             `bson:"last_name"`
	Email           string             `bson:"email"`
	Phone           string             `bson:"phone"`
	Address         addressDocument    `bson:"address"`
	PasswordHash    string             `bson:"password_hash"`
	SportCenterName string             `bson:"sport_center_name"`
	Description     string             `bson:"description,omitempty"`
	Logo            string             `bson:"logo,omitempty"`
	Facilities      []facilityDocument `bson:"facilities"`
	Open            string             `bson:"open,omitempty"`
	Close           string             `bson:"close,omitempty"`
	OpenHour        *int               `bson:"open_hour,omitempty"`
	CloseHour       *int               `bson:"close_hour,omitempty"`
	Location        *pointDocument     `bson:"location,omitempty"`
	Status          string             `bson:"status"`
	TimeAvailable   bool               `bson:"time_available"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
}

func newLessorDocument(l *domainlessors.Lessor) lessorDocument {
	doc := lessorDocument{
		ID:              string(l.ID),
		FirstName:       l.FirstName,
		LastName:        l.LastName,
		Email:           l.Email,
		Phone:           l.Phone,
		Address:         addressDocument{Street: l.Address.Street, City: l.Address.City, State: l.Address.State},
		PasswordHash:    l.PasswordHash,
		SportCenterName: l.SportCenterName,
		Description:     l.Description,
		Logo:            l.Logo,
		Open:            l.Hours.Open,
		Close:           l.Hours.Close,
		Status:          string(l.Status),
		TimeAvailable:   l.TimeAvailable,
		CreatedAt:       l.CreatedAt.UTC(),
		UpdatedAt:       l.UpdatedAt.UTC(),
	}
	if open, close, ok := l.Hours.Span(); ok {
		doc.OpenHour, doc.CloseHour = &open, &close
	}
	if l.Location != nil {
		doc.Location = &pointDocument{Type: "Point", Coordinates: []float64{l.Location.Lng, l.Location.Lat}}
	}
	doc.Facilities = make([]facilityDocument, 0, len(l.Facilities))
	for _, f := range l.Facilities {
		fd := facilityDocument{
			ID:          string(f.ID),
			Name:        f.Name,
			Description: f.Description,
			Price:       f.Price,
			Image:       f.Image,
			Courts:      make([]courtDocument, 0, len(f.Courts)),
		}
		for _, c := range f.Courts {
			fd.Courts = append(fd.Courts, courtDocument{ID: string(c.ID), Name: c.Name, Description: c.Description, Images: c.Images})
		}
		doc.Facilities = append(doc.Facilities, fd)
	}
	return doc
}

func (d lessorDocument) toAggregate() *domainlessors.Lessor {
	l := &domainlessors.Lessor{
		ID:              domainlessors.LessorID(d.ID),
		FirstName:       d.FirstName,
		LastName:        d.LastName,
		Email:           d.Email,
		Phone:           d.Phone,
		Address:         domainlessors.Address{Street: d.Address.Street, City: d.Address.City, State: d.Address.State},
		PasswordHash:    d.PasswordHash,
		SportCenterName: d.SportCenterName,
		Description:     d.Description,
		Logo:            d.Logo,
		Hours:           domainlessors.OperatingHours{Open: d.Open, Close: d.Close},
		Status:          status.Status(d.Status),
		TimeAvailable:   d.TimeAvailable,
		CreatedAt:       d.CreatedAt.UTC(),
		UpdatedAt:       d.UpdatedAt.UTC(),
	}
	if d.Location != nil && len(d.Location.Coordinates) == 2 {
		l.Location = &geo.Point{Lng: d.Location.Coordinates[0], Lat: d.Location.Coordinates[1]}
	}
	l.Facilities = make([]domainlessors.Facility, 0, len(d.Facilities))
	for _, fd := range d.Facilities {
		f := domainlessors.Facility{
			ID:          domainlessors.FacilityID(fd.ID),
			Name:        fd.Name,
			Description: fd.Description,
			Price:       fd.Price,
			Image:       fd.Image,
			Courts:      make([]domainlessors.Court, 0, len(fd.Courts)),
		}
		for _, c := range fd.Courts {
			f.Courts = append(f.Courts, domainlessors.Court{
				ID:          domainlessors.CourtID(c.ID),
				Name:        c.Name,
				Description: c.Description,
				Images:      c.Images,
			})
		}
		l.Facilities = append(l.Facilities, f)
	}
	return l
}

var _ domainlessors.Repository = (*LessorRepository)(nil)
