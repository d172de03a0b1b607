package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/logimax/analytics/internal/domain/models"
)

const (
	ordersCollection  = "pedidos"
	alertsCollection  = "alertas"
	reportsCollection = "relatorios_kpi"
	weeklyCollection  = "metricas_semanais_ifood"
)

// OrderRepository supplies order records scoped by window and status.
type OrderRepository interface {
	FindInWindow(ctx context.Context, window models.Window, statuses ...models.OrderStatus) ([]models.Order, error)
	Recent(ctx context.Context, limit int64) ([]models.Order, error)
}

// AlertRepository is the durable sink for raised alerts.
type AlertRepository interface {
	Insert(ctx context.Context, alert models.Alert) error
	Active(ctx context.Context) ([]models.Alert, error)
}

// ReportRepository stores daily report snapshots keyed by reference date.
type ReportRepository interface {
	Upsert(ctx context.Context, report models.DailyReport) error
	RecentReports(ctx context.Context, limit int64) ([]models.DailyReport, error)
}

// MetricsRepository stores weekly merchant metrics pulled from the iFood API.
type MetricsRepository interface {
	InsertWeekly(ctx context.Context, metrics models.WeeklyMetrics) error
	RecentWeekly(ctx context.Context, limit int64) ([]models.WeeklyMetrics, error)
}

// MongoDBRepository implements the repository interfaces on a single MongoDB
// database.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
}

// NewMongoDBRepository connects to MongoDB and verifies the connection.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		dbName: dbName,
	}, nil
}

func (r *MongoDBRepository) collection(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

// FindInWindow returns the orders created inside the half-open window,
// optionally narrowed to the given statuses. Records are normalized on the
// way out so downstream aggregation never re-coerces numeric fields.
func (r *MongoDBRepository) FindInWindow(ctx context.Context, window models.Window, statuses ...models.OrderStatus) ([]models.Order, error) {
	filter := bson.M{
		"created_at": bson.M{"$gte": window.Start, "$lt": window.End},
	}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}

	cursor, err := r.collection(ordersCollection).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find orders in window [%s, %s): %w",
			window.Start.Format("2006-01-02T15:04:05Z07:00"), window.End.Format("2006-01-02T15:04:05Z07:00"), err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}

	return models.NormalizeOrders(orders), nil
}

// Recent returns the newest orders, most recent first.
func (r *MongoDBRepository) Recent(ctx context.Context, limit int64) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)

	cursor, err := r.collection(ordersCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find recent orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode recent orders: %w", err)
	}

	return models.NormalizeOrders(orders), nil
}

// Insert persists one raised alert.
func (r *MongoDBRepository) Insert(ctx context.Context, alert models.Alert) error {
	if _, err := r.collection(alertsCollection).InsertOne(ctx, alert); err != nil {
		return fmt.Errorf("insert alert %s: %w", alert.Tipo, err)
	}
	return nil
}

// Active returns the alerts still marked ativo.
func (r *MongoDBRepository) Active(ctx context.Context) ([]models.Alert, error) {
	cursor, err := r.collection(alertsCollection).Find(ctx, bson.M{"status": models.AlertStatusActive})
	if err != nil {
		return nil, fmt.Errorf("find active alerts: %w", err)
	}
	defer cursor.Close(ctx)

	var alerts []models.Alert
	if err := cursor.All(ctx, &alerts); err != nil {
		return nil, fmt.Errorf("decode active alerts: %w", err)
	}
	return alerts, nil
}

// Upsert writes the daily report keyed on data_referencia, replacing any
// previous snapshot for the same date. Retries therefore never duplicate a
// day.
func (r *MongoDBRepository) Upsert(ctx context.Context, report models.DailyReport) error {
	filter := bson.M{"data_referencia": report.DataReferencia}
	opts := options.Replace().SetUpsert(true)

	if _, err := r.collection(reportsCollection).ReplaceOne(ctx, filter, report, opts); err != nil {
		return fmt.Errorf("upsert daily report %s: %w", report.DataReferencia, err)
	}
	return nil
}

// RecentReports returns the newest daily reports, most recent first.
func (r *MongoDBRepository) RecentReports(ctx context.Context, limit int64) ([]models.DailyReport, error) {
	opts := options.Find().SetSort(bson.D{{Key: "data_referencia", Value: -1}}).SetLimit(limit)

	cursor, err := r.collection(reportsCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find recent reports: %w", err)
	}
	defer cursor.Close(ctx)

	var reports []models.DailyReport
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("decode recent reports: %w", err)
	}
	return reports, nil
}

// InsertWeekly persists one weekly metrics row.
func (r *MongoDBRepository) InsertWeekly(ctx context.Context, metrics models.WeeklyMetrics) error {
	if _, err := r.collection(weeklyCollection).InsertOne(ctx, metrics); err != nil {
		return fmt.Errorf("insert weekly metrics for merchant %s: %w", metrics.MerchantID, err)
	}
	return nil
}

// RecentWeekly returns the newest weekly metric rows, most recent first.
func (r *MongoDBRepository) RecentWeekly(ctx context.Context, limit int64) ([]models.WeeklyMetrics, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)

	cursor, err := r.collection(weeklyCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find recent weekly metrics: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []models.WeeklyMetrics
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode weekly metrics: %w", err)
	}
	return rows, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
