// Package mongodb 将每个采集周期的指标快照写入 MongoDB。
//
// 每次 Export 写入一篇文档到 <db>.glances_stats：
//
//	{ <column_1>: value_1, ..., "type": <name>, "time": <unix seconds>, ["hostname": <host>] }
//
// 启动失败（配置不完整、无法连接）以 ConfigError/ConnectionError 返回，由入口决定退出；
// 写入失败以 WriteError 返回并已记录日志，不影响后续写入。
package mongodb

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/agent-mongo-exporter/pkg/config"
)

// Collection 固定写入的集合名
const Collection = "glances_stats"

const defaultTimeout = 10 * time.Second

// Exporter 持有唯一的数据库连接，进程生命周期内不重建。
// 调用方需串行调用 Export，本类型不做并发保护。
type Exporter struct {
	cfg      config.MongoConfig
	uri      string
	client   Client
	log      *zap.Logger
	hostname string
	clock    func() time.Time
	lastTime float64

	connector        Connector
	hostnameResolver func(ctx context.Context) (string, error)
}

// Option 导出器可选项
type Option func(*Exporter)

// WithConnector 替换建立连接的方式（测试注入假客户端）
func WithConnector(c Connector) Option {
	return func(e *Exporter) { e.connector = c }
}

// WithClock 替换时间源
func WithClock(clock func() time.Time) Option {
	return func(e *Exporter) { e.clock = clock }
}

// WithHostnameResolver 替换本机主机名解析
func WithHostnameResolver(r func(ctx context.Context) (string, error)) Option {
	return func(e *Exporter) { e.hostnameResolver = r }
}

// New 校验必填项 → 建立连接 → 探测数据库。
// 必填项缺失时返回 *ConfigError 且不尝试连接；连接失败返回 *ConnectionError。
func New(ctx context.Context, cfg config.MongoConfig, log *zap.Logger, opts ...Option) (*Exporter, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	e := &Exporter{
		cfg:              cfg,
		log:              log,
		clock:            time.Now,
		connector:        Connect,
		hostnameResolver: localHostname,
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := cfg.CheckMandatory(); err != nil {
		log.Error("mongodb export disabled", zap.Error(err))
		return nil, &ConfigError{Err: err}
	}

	e.uri = RedactedURI(cfg)
	client, err := e.connector(ctx, BuildURI(cfg), cfg)
	if err != nil {
		log.DPanic("Cannot connect to Mongodb server", zap.String("uri", e.uri), zap.Error(err))
		return nil, &ConnectionError{URI: e.uri, Err: err}
	}
	e.client = client
	log.Info("Connected to the Mongodb server", zap.String("uri", e.uri))

	e.ensureDatabase(ctx)

	if cfg.IncludeHostname() {
		name, err := e.hostnameResolver(ctx)
		if err != nil || name == "" {
			log.Warn("cannot resolve local hostname, documents will not carry it", zap.Error(err))
		} else {
			e.hostname = name
		}
	}
	return e, nil
}

// ensureDatabase 探测目标库是否存在；探测失败或不存在时尽力创建，结果只记录日志
func (e *Exporter) ensureDatabase(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	names, err := e.client.ListDatabaseNames(ctx, e.cfg.DB)
	if err == nil && slices.Contains(names, e.cfg.DB) {
		e.log.Info("There is already a database", zap.String("db", e.cfg.DB))
		return
	}
	if err != nil {
		e.log.Debug("cannot list databases", zap.String("db", e.cfg.DB), zap.Error(err))
	}

	if err := e.client.CreateCollection(ctx, e.cfg.DB, Collection); err != nil {
		e.log.Warn("cannot create database", zap.String("db", e.cfg.DB), zap.Error(err))
		return
	}
	e.log.Info("database created", zap.String("db", e.cfg.DB), zap.String("collection", Collection))
}

// Export 写入一次采集结果；失败时记录 error 日志并返回 *WriteError，不重试。
func (e *Exporter) Export(ctx context.Context, name string, columns []string, points []any) error {
	e.log.Debug("Export stats to Mongodb", zap.String("type", name))

	doc := e.document(name, columns, points)

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	if err := e.client.InsertOne(ctx, e.cfg.DB, Collection, doc); err != nil {
		e.log.Error("Cannot export stats to Mongodb", zap.String("type", name), zap.Error(err))
		return &WriteError{Type: name, Err: err}
	}
	return nil
}

// document 按位置配对 columns/points（以较短者为准），重复列名后者覆盖前者
func (e *Exporter) document(name string, columns []string, points []any) bson.M {
	n := min(len(columns), len(points))
	doc := make(bson.M, n+3)
	for i := 0; i < n; i++ {
		doc[columns[i]] = points[i]
	}
	doc["type"] = name
	doc["time"] = e.now()
	if e.hostname != "" {
		doc["hostname"] = e.hostname
	}
	return doc
}

// now 返回浮点秒时间戳，保证同一导出器内不回退
func (e *Exporter) now() float64 {
	t := float64(e.clock().UnixNano()) / float64(time.Second)
	if t < e.lastTime {
		return e.lastTime
	}
	e.lastTime = t
	return t
}

// Ping 健康检查
func (e *Exporter) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()
	return e.client.Ping(ctx)
}

// Close 断开连接
func (e *Exporter) Close(ctx context.Context) error {
	if e.client == nil {
		return errors.New("mongodb exporter is not connected")
	}
	if err := e.client.Disconnect(ctx); err != nil {
		e.log.Error("failed to disconnect mongodb client", zap.Error(err))
		return err
	}
	e.log.Info("mongodb client disconnected")
	return nil
}

// URI 返回脱敏后的连接串
func (e *Exporter) URI() string { return e.uri }

// Hostname 文档中携带的主机名，未启用时为空
func (e *Exporter) Hostname() string { return e.hostname }

func localHostname(ctx context.Context) (string, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return "", err
	}
	return info.Hostname, nil
}
