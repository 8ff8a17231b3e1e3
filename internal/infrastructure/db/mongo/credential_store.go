package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/absensi-pegawai/portal/internal/core/domain"
	"github.com/absensi-pegawai/portal/internal/core/ports"
	"github.com/absensi-pegawai/portal/internal/pkg/password"
)

const (
	adminCollection    = "admin"
	karyawanCollection = "karyawan"
	countersCollection = "counters"
	attemptsCollection = "login_attempts"
)

var _ ports.CredentialStore = (*CredentialStore)(nil)

// CredentialStore implements the admin and karyawan credential stores, plus
// the login audit trail, on MongoDB.
type CredentialStore struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewCredentialStore(client *mongo.Client, db *mongo.Database) *CredentialStore {
	return &CredentialStore{client: client, db: db}
}

type adminDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	IDAdmin      int                `bson:"id_admin"`
	Username     string             `bson:"username"`
	NamaAdmin    string             `bson:"nama_admin"`
	PasswordHash string             `bson:"password_hash"`
	CreatedAt    int64              `bson:"created_at"`
}

type karyawanDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	IDKaryawan   int                `bson:"id_karyawan"`
	Username     string             `bson:"username"`
	NamaKaryawan string             `bson:"nama_karyawan"`
	PasswordHash string             `bson:"password_hash"`
	CreatedAt    int64              `bson:"created_at"`
}

// FindAdmins returns admin rows whose username and password both match.
func (s *CredentialStore) FindAdmins(ctx context.Context, creds domain.Credentials) ([]domain.AdminRecord, error) {
	docs, err := findByUsername[adminDoc](ctx, s.db.Collection(adminCollection), creds.Username, "id_admin")
	if err != nil {
		return nil, fmt.Errorf("find admin: %w", err)
	}
	if len(docs) == 0 {
		password.MatchesAbsent(creds.Password)
	}

	out := make([]domain.AdminRecord, 0, len(docs))
	for _, d := range docs {
		if password.Matches(d.PasswordHash, creds.Password) {
			out = append(out, domain.AdminRecord{IDAdmin: d.IDAdmin, Username: d.Username, NamaAdmin: d.NamaAdmin})
		}
	}
	return out, nil
}

// FindEmployees returns karyawan rows whose username and password both match.
func (s *CredentialStore) FindEmployees(ctx context.Context, creds domain.Credentials) ([]domain.EmployeeRecord, error) {
	docs, err := findByUsername[karyawanDoc](ctx, s.db.Collection(karyawanCollection), creds.Username, "id_karyawan")
	if err != nil {
		return nil, fmt.Errorf("find karyawan: %w", err)
	}
	if len(docs) == 0 {
		password.MatchesAbsent(creds.Password)
	}

	out := make([]domain.EmployeeRecord, 0, len(docs))
	for _, d := range docs {
		if password.Matches(d.PasswordHash, creds.Password) {
			out = append(out, domain.EmployeeRecord{IDKaryawan: d.IDKaryawan, Username: d.Username, NamaKaryawan: d.NamaKaryawan})
		}
	}
	return out, nil
}

func findByUsername[T any](ctx context.Context, coll *mongo.Collection, username, sortKey string) ([]T, error) {
	opts := options.Find().SetSort(bson.D{{Key: sortKey, Value: 1}})
	cur, err := coll.Find(ctx, bson.M{"username": username}, opts)
	if err != nil {
		return nil, err
	}

	var docs []T
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// CreateAccount inserts a new account into the collection for acc.Role and
// assigns it the next numeric id.
func (s *CredentialStore) CreateAccount(ctx context.Context, acc domain.NewAccount) (domain.StoreRecord, error) {
	switch acc.Role {
	case domain.RoleAdmin:
		id, err := s.nextID(ctx, adminCollection)
		if err != nil {
			return nil, err
		}
		doc := adminDoc{
			IDAdmin:      id,
			Username:     acc.Username,
			NamaAdmin:    acc.Name,
			PasswordHash: acc.PasswordHash,
			CreatedAt:    time.Now().UTC().Unix(),
		}
		if err := s.insert(ctx, adminCollection, doc); err != nil {
			return nil, err
		}
		return domain.AdminRecord{IDAdmin: id, Username: acc.Username, NamaAdmin: acc.Name}, nil

	case domain.RoleKaryawan:
		id, err := s.nextID(ctx, karyawanCollection)
		if err != nil {
			return nil, err
		}
		doc := karyawanDoc{
			IDKaryawan:   id,
			Username:     acc.Username,
			NamaKaryawan: acc.Name,
			PasswordHash: acc.PasswordHash,
			CreatedAt:    time.Now().UTC().Unix(),
		}
		if err := s.insert(ctx, karyawanCollection, doc); err != nil {
			return nil, err
		}
		return domain.EmployeeRecord{IDKaryawan: id, Username: acc.Username, NamaKaryawan: acc.Name}, nil
	}

	return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRole, acc.Role)
}

func (s *CredentialStore) insert(ctx context.Context, collection string, doc any) error {
	if _, err := s.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAccountExists
		}
		return fmt.Errorf("insert %s: %w", collection, err)
	}
	return nil
}

// nextID increments and returns the per-collection sequence.
func (s *CredentialStore) nextID(ctx context.Context, collection string) (int, error) {
	var counter struct {
		Seq int `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := s.db.Collection(countersCollection).
		FindOneAndUpdate(ctx, bson.M{"_id": collection}, bson.M{"$inc": bson.M{"seq": 1}}, opts).
		Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", collection, err)
	}
	return counter.Seq, nil
}

// InsertAttempt persists a login attempt to the login_attempts audit collection.
func (s *CredentialStore) InsertAttempt(ctx context.Context, attempt domain.LoginAttempt) error {
	doc := bson.M{
		"username":    attempt.Username,
		"outcome":     string(attempt.Outcome),
		"at":          attempt.At.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if attempt.Role != "" {
		doc["role"] = string(attempt.Role)
	}
	if attempt.RemoteIP != "" {
		doc["remote_ip"] = attempt.RemoteIP
	}

	_, err := s.db.Collection(attemptsCollection).InsertOne(ctx, doc)
	return err
}

// EnsureIndexes creates the unique username indexes and the audit index.
func (s *CredentialStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	unique := []struct {
		collection string
		idKey      string
	}{
		{adminCollection, "id_admin"},
		{karyawanCollection, "id_karyawan"},
	}
	for _, u := range unique {
		indexes := []mongo.IndexModel{
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: u.idKey, Value: 1}}, Options: options.Index().SetUnique(true)},
		}
		if _, err := s.db.Collection(u.collection).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("indexes %s: %w", u.collection, err)
		}
	}

	_, err := s.db.Collection(attemptsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "username", Value: 1}, {Key: "at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("indexes %s: %w", attemptsCollection, err)
	}
	return nil
}

// Ping reports whether the primary is reachable.
func (s *CredentialStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return err
	}
	return s.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

// Close disconnects the client.
func (s *CredentialStore) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil && !errors.Is(err, mongo.ErrClientDisconnected) {
		return err
	}
	return nil
}
