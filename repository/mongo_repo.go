package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"name_guard/adapters"
	"name_guard/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// 웜스타트 스캔 시 커서 배치 크기
const scanBatchSize = 1000

// ✅ MongoDB 이름 저장소 구조체 (이름당 문서 1개, 유일성은 "name" 유니크 인덱스)
type MongoNameRepository struct {
	Collection *mongo.Collection
	now        func() time.Time
}

// ✅ 이름 저장소 인스턴스 생성
func NewMongoNameRepository(db database.MongoDB, collection string) *MongoNameRepository {
	return &MongoNameRepository{Collection: db.GetCollection(collection), now: time.Now}
}

// ✅ EnsureIndexes: 유니크 인덱스 생성 (여러 번 호출해도 안전)
func (r *MongoNameRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("name_unique"),
	})
	if err != nil {
		return fmt.Errorf("mongo name index: %w", err)
	}
	return nil
}

func (r *MongoNameRepository) clock() time.Time {
	if r.now == nil {
		return time.Now()
	}
	return r.now()
}

// ✅ ForEachName: 커서로 이름만 프로젝션해서 순회
func (r *MongoNameRepository) ForEachName(ctx context.Context, fn func(name string) error) error {
	opts := options.Find().
		SetProjection(bson.M{"name": 1, "_id": 0}).
		SetBatchSize(scanBatchSize)

	cursor, err := r.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return fmt.Errorf("mongo scan: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc adapters.MongoName
		if err := cursor.Decode(&doc); err != nil {
			return fmt.Errorf("mongo decode: %w", err)
		}
		if err := fn(doc.ToName()); err != nil {
			return stopped(err)
		}
	}
	if err := cursor.Err(); err != nil {
		return fmt.Errorf("mongo scan: %w", err)
	}
	return nil
}

// ✅ InsertIfAbsent: 중복 키 에러 = 이미 존재하는 이름
func (r *MongoNameRepository) InsertIfAbsent(ctx context.Context, name string) (bool, error) {
	_, err := r.Collection.InsertOne(ctx, adapters.NewMongoName(name, r.clock()))
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("mongo insert %q: %w", name, err)
	}
	return true, nil
}

// ✅ InsertManyIfAbsent: 비순차 삽입 (중복 하나가 나머지를 막지 않음)
func (r *MongoNameRepository) InsertManyIfAbsent(ctx context.Context, names []string) (int, error) {
	if len(names) == 0 {
		return 0, nil
	}
	now := r.clock()
	docs := make([]interface{}, 0, len(names))
	for _, name := range names {
		docs = append(docs, adapters.NewMongoName(name, now))
	}

	res, err := r.Collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err == nil {
		return len(res.InsertedIDs), nil
	}

	var bulkErr mongo.BulkWriteException
	if !errors.As(err, &bulkErr) || bulkErr.WriteConcernError != nil {
		return 0, fmt.Errorf("mongo bulk insert: %w", err)
	}
	dups := 0
	for _, we := range bulkErr.WriteErrors {
		if we.Code != duplicateKeyCode {
			return 0, fmt.Errorf("mongo bulk insert: %w", err)
		}
		dups++
	}
	return len(names) - dups, nil
}

const duplicateKeyCode = 11000

func (r *MongoNameRepository) CountNames(ctx context.Context) (int64, error) {
	n, err := r.Collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("mongo count: %w", err)
	}
	return n, nil
}
