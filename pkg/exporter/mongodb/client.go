package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/agent-mongo-exporter/pkg/config"
)

// Client 导出器用到的最小数据库操作集合，隔离 mongo-driver 便于单测替换
type Client interface {
	Ping(ctx context.Context) error
	ListDatabaseNames(ctx context.Context, name string) ([]string, error)
	CreateCollection(ctx context.Context, db, coll string) error
	InsertOne(ctx context.Context, db, coll string, doc any) error
	Disconnect(ctx context.Context) error
}

// Connector 根据连接串建立客户端，New 中只调用一次
type Connector func(ctx context.Context, uri string, cfg config.MongoConfig) (Client, error)

// driverClient mongo-driver 实现
type driverClient struct {
	client *mongo.Client
}

// Connect 默认 Connector：mongo.Connect 后 Ping 一次确认服务可达、认证通过
func Connect(ctx context.Context, uri string, cfg config.MongoConfig) (Client, error) {
	clientOptions := options.Client().
		ApplyURI(uri).
		SetAppName("agent-mongo-exporter").
		SetConnectTimeout(cfg.Timeout).
		SetServerSelectionTimeout(cfg.Timeout)
	if err := clientOptions.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mongodb uri: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	c, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}
	if err := c.Ping(ctx, nil); err != nil {
		_ = c.Disconnect(context.Background())
		return nil, err
	}
	return &driverClient{client: c}, nil
}

func (d *driverClient) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, nil)
}

func (d *driverClient) ListDatabaseNames(ctx context.Context, name string) ([]string, error) {
	return d.client.ListDatabaseNames(ctx, bson.D{{Key: "name", Value: name}})
}

func (d *driverClient) CreateCollection(ctx context.Context, db, coll string) error {
	return d.client.Database(db).CreateCollection(ctx, coll)
}

func (d *driverClient) InsertOne(ctx context.Context, db, coll string, doc any) error {
	_, err := d.client.Database(db).Collection(coll).InsertOne(ctx, doc)
	return err
}

func (d *driverClient) Disconnect(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}
