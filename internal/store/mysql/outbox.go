package mysql

import "context"

// InsertOutbox adds an event row to the outbox. Debezium's outbox SMT picks it
// up and publishes to Kafka based on the `topic` column.
func (t *mysqlTx) InsertOutbox(ctx context.Context, aggregate, aggregateID, topic string, payload []byte) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO outbox (aggregate, aggregate_id, topic, payload, created_at)
		VALUES (?, ?, ?, ?, NOW())
	`, aggregate, aggregateID, topic, payload)
	return err
}
