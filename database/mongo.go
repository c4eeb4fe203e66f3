package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ✅ MongoDB 인터페이스 (저장소는 클라이언트 대신 이것에 의존)
type MongoDB interface {
	GetCollection(name string) *mongo.Collection
}

// 데이터베이스 하나에 묶인 연결된 클라이언트
type MongoClient struct {
	client   *mongo.Client
	database string
}

// ✅ NewMongoClient: 연결 후 primary에 ping까지 확인
func NewMongoClient(ctx context.Context, uri, database string) (*MongoClient, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &MongoClient{client: client, database: database}, nil
}

// ✅ 컬렉션 가져오기
func (m *MongoClient) GetCollection(name string) *mongo.Collection {
	return m.client.Database(m.database).Collection(name)
}

// ✅ 연결 종료
func (m *MongoClient) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
