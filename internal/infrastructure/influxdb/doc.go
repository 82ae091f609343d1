// Package influxdb wraps influxdb-client-go v2 for Heima's optional
// decision telemetry.
//
// Writes are non-blocking and batched according to influxdb.batch_size and
// influxdb.flush_interval; failed batches are reported through SetOnError.
// Connection and health-check errors are returned directly.
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//	client.WritePoint("heima_decision", map[string]string{"house_state": "home"},
//	    map[string]any{"people_count": 2})
package influxdb
