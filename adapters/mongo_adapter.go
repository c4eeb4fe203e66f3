package adapters

import "time"

// ✅ MongoDB 저장용 이름 구조체 (컬렉션에 "name" 유니크 인덱스)
type MongoName struct {
	Name      string    `bson:"name"`
	CreatedAt time.Time `bson:"created_at"`
}

// ✅ 이름 → MongoDB 저장용 변환 (UTC 기준 시각)
func NewMongoName(name string, now time.Time) MongoName {
	return MongoName{
		Name:      name,
		CreatedAt: now.UTC(),
	}
}

// ✅ MongoDB 데이터 → 이름 변환
func (m *MongoName) ToName() string {
	return m.Name
}
