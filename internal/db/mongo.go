package db

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coursegrid/coursegrid/internal/course"
)

const (
	coursesCollection  = "courses"
	catalogsCollection = "catalogs"
)

// Mongo implements course.Repository using MongoDB. Documents use the
// course sheet's column names as field names.
type Mongo struct {
	client   *mongo.Client
	courses  *mongo.Collection
	catalogs *mongo.Collection
}

// NewMongo connects to uri, pings the server and ensures indexes exist.
func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}

	db := client.Database(database)
	m := &Mongo{
		client:   client,
		courses:  db.Collection(coursesCollection),
		catalogs: db.Collection(catalogsCollection),
	}

	_, err = m.courses.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "COURSE_NUMBER", Value: 1}, {Key: "TERM", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("creating course index: %w", err)
	}

	return m, nil
}

type courseDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	CourseNumber     string             `bson:"COURSE_NUMBER"`
	Title            string             `bson:"TITLE_START_DATE"`
	AcademicLevel    string             `bson:"ACADEMIC_LEVEL"`
	Capacity         int                `bson:"CAPACITY"`
	NumberOfStudents int                `bson:"NUMBER_OF_STUDENTS"`
	Status           string             `bson:"STATUS"`
	Instructor       string             `bson:"INSTRUCTOR"`
	StartTime        string             `bson:"START_TIME"`
	EndTime          string             `bson:"END_TIME"`
	MeetingDays      string             `bson:"MEETING_DAYS"`
	Building         string             `bson:"BUILDING"`
	Room             string             `bson:"ROOM"`
	Fee              string             `bson:"FEE"`
	MinCredits       int                `bson:"MIN_CREDITS"`
	MaxCredits       int                `bson:"MAX_CREDITS"`
	Section          string             `bson:"SECTION"`
	Term             string             `bson:"TERM"`
	SeqNo            int                `bson:"SEQ_NO"`
	Schools          string             `bson:"SCHOOLS"`
	AcademicLevel1   string             `bson:"ACADEMIC_LEVEL_1"`
	CreatedAt        time.Time          `bson:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt"`
}

func toDoc(c *course.Course) courseDoc {
	d := courseDoc{
		CourseNumber:     c.CourseNumber,
		Title:            c.Title,
		AcademicLevel:    c.AcademicLevel,
		Capacity:         c.Capacity,
		NumberOfStudents: c.NumberOfStudents,
		Status:           c.Status,
		Instructor:       c.Instructor,
		StartTime:        c.StartTime,
		EndTime:          c.EndTime,
		MeetingDays:      c.MeetingDays,
		Building:         c.Building,
		Room:             c.Room,
		Fee:              c.Fee,
		MinCredits:       c.MinCredits,
		MaxCredits:       c.MaxCredits,
		Section:          c.Section,
		Term:             c.Term,
		SeqNo:            c.SeqNo,
		Schools:          c.Schools,
		AcademicLevel1:   c.AcademicLevel1,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
	if id, err := primitive.ObjectIDFromHex(c.ID); err == nil {
		d.ID = id
	}
	return d
}

func (d courseDoc) course() *course.Course {
	return &course.Course{
		ID:               d.ID.Hex(),
		CourseNumber:     d.CourseNumber,
		Title:            d.Title,
		AcademicLevel:    d.AcademicLevel,
		Capacity:         d.Capacity,
		NumberOfStudents: d.NumberOfStudents,
		Status:           d.Status,
		Instructor:       d.Instructor,
		StartTime:        d.StartTime,
		EndTime:          d.EndTime,
		MeetingDays:      d.MeetingDays,
		Building:         d.Building,
		Room:             d.Room,
		Fee:              d.Fee,
		MinCredits:       d.MinCredits,
		MaxCredits:       d.MaxCredits,
		Section:          d.Section,
		Term:             d.Term,
		SeqNo:            d.SeqNo,
		Schools:          d.Schools,
		AcademicLevel1:   d.AcademicLevel1,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

// mutableFields returns the $set document for an update, leaving _id and
// createdAt alone.
func (d courseDoc) mutableFields() bson.M {
	return bson.M{
		"COURSE_NUMBER":      d.CourseNumber,
		"TITLE_START_DATE":   d.Title,
		"ACADEMIC_LEVEL":     d.AcademicLevel,
		"CAPACITY":           d.Capacity,
		"NUMBER_OF_STUDENTS": d.NumberOfStudents,
		"STATUS":             d.Status,
		"INSTRUCTOR":         d.Instructor,
		"START_TIME":         d.StartTime,
		"END_TIME":           d.EndTime,
		"MEETING_DAYS":       d.MeetingDays,
		"BUILDING":           d.Building,
		"ROOM":               d.Room,
		"FEE":                d.Fee,
		"MIN_CREDITS":        d.MinCredits,
		"MAX_CREDITS":        d.MaxCredits,
		"SECTION":            d.Section,
		"TERM":               d.Term,
		"SEQ_NO":             d.SeqNo,
		"SCHOOLS":            d.Schools,
		"ACADEMIC_LEVEL_1":   d.AcademicLevel1,
		"updatedAt":          d.UpdatedAt,
	}
}

// CreateCourse adds a new course.
func (m *Mongo) CreateCourse(ctx context.Context, c *course.Course) error {
	stamp(c, true)
	doc := toDoc(c)
	doc.ID = primitive.NilObjectID

	res, err := m.courses.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s %s", course.ErrDuplicateCourse, c.CourseNumber, c.Term)
		}
		return fmt.Errorf("inserting course: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = oid.Hex()
	}
	return nil
}

// GetCourse retrieves a course by ID.
func (m *Mongo) GetCourse(ctx context.Context, id string) (*course.Course, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, course.ErrCourseNotFound
	}

	var doc courseDoc
	err = m.courses.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, course.ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding course: %w", err)
	}
	return doc.course(), nil
}

// UpdateCourse replaces an existing course.
func (m *Mongo) UpdateCourse(ctx context.Context, c *course.Course) error {
	oid, err := primitive.ObjectIDFromHex(c.ID)
	if err != nil {
		return course.ErrCourseNotFound
	}
	stamp(c, false)

	res, err := m.courses.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": toDoc(c).mutableFields()},
		options.Update().SetUpsert(false),
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s %s", course.ErrDuplicateCourse, c.CourseNumber, c.Term)
		}
		return fmt.Errorf("updating course: %w", err)
	}
	if res.MatchedCount == 0 {
		return course.ErrCourseNotFound
	}
	return nil
}

// DeleteCourse removes a course and returns its last state.
func (m *Mongo) DeleteCourse(ctx context.Context, id string) (*course.Course, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, course.ErrCourseNotFound
	}

	var doc courseDoc
	err = m.courses.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, course.ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("deleting course: %w", err)
	}
	return doc.course(), nil
}

// ListCourses returns matching courses ordered by _id, which follows
// insertion order.
func (m *Mongo) ListCourses(ctx context.Context, f course.Filter) ([]*course.Course, error) {
	cursor, err := m.courses.Find(ctx, mongoFilter(f), options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("finding courses: %w", err)
	}

	var docs []courseDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("iterating courses: %w", err)
	}

	courses := make([]*course.Course, len(docs))
	for i, d := range docs {
		courses[i] = d.course()
	}
	return courses, nil
}

func mongoFilter(f course.Filter) bson.M {
	filter := bson.M{}
	if f.TermSuffix != "" {
		filter["TERM"] = bson.M{"$regex": "/" + regexp.QuoteMeta(f.TermSuffix) + "$", "$options": "i"}
	}
	if f.Room != "" {
		filter["ROOM"] = f.Room
	}
	if len(f.Prefixes) > 0 {
		quoted := make([]string, len(f.Prefixes))
		for i, p := range f.Prefixes {
			quoted[i] = regexp.QuoteMeta(p)
		}
		filter["COURSE_NUMBER"] = bson.M{"$regex": "^(?:" + strings.Join(quoted, "|") + ")", "$options": "i"}
	}
	return filter
}

// UpsertCourses inserts or replaces courses keyed on course number and term.
func (m *Mongo) UpsertCourses(ctx context.Context, courses []*course.Course) (int, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	for _, c := range courses {
		stamp(c, true)
		doc := toDoc(c)

		var saved courseDoc
		err := m.courses.FindOneAndUpdate(ctx,
			bson.M{"COURSE_NUMBER": c.CourseNumber, "TERM": c.Term},
			bson.M{
				"$set":         doc.mutableFields(),
				"$setOnInsert": bson.M{"createdAt": doc.CreatedAt},
			},
			opts,
		).Decode(&saved)
		if err != nil {
			return 0, fmt.Errorf("upserting course %s: %w", c.CourseNumber, err)
		}
		c.ID = saved.ID.Hex()
	}
	return len(courses), nil
}

type catalogDoc struct {
	CurriculumType string                `bson:"curriculumType"`
	Entries        []course.CatalogEntry `bson:"entries"`
	CreatedAt      time.Time             `bson:"createdAt"`
}

// ReplaceCatalog stores a catalog, replacing any previous one of its type.
func (m *Mongo) ReplaceCatalog(ctx context.Context, cat *course.Catalog) error {
	if cat.CreatedAt.IsZero() {
		cat.CreatedAt = time.Now()
	}
	for i := range cat.Entries {
		cat.Entries[i].Position = i
	}

	if _, err := m.catalogs.DeleteMany(ctx, bson.M{"curriculumType": cat.CurriculumType}); err != nil {
		return fmt.Errorf("deleting catalog: %w", err)
	}
	doc := catalogDoc{CurriculumType: cat.CurriculumType, Entries: cat.Entries, CreatedAt: cat.CreatedAt}
	if _, err := m.catalogs.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("inserting catalog: %w", err)
	}
	return nil
}

// GetCatalog retrieves the catalog of a curriculum type.
func (m *Mongo) GetCatalog(ctx context.Context, curriculumType string) (*course.Catalog, error) {
	var doc catalogDoc
	err := m.catalogs.FindOne(ctx, bson.M{"curriculumType": curriculumType}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, course.ErrCatalogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding catalog: %w", err)
	}
	return &course.Catalog{CurriculumType: doc.CurriculumType, Entries: doc.Entries, CreatedAt: doc.CreatedAt}, nil
}

// Close disconnects the client.
func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
