// Package config loads memodom.json or memodom.yaml.
//
// The file configures memodom serve (listen address, websocket timeouts and
// buffers), the batch journal and its S3 archive, logging and prometheus
// metrics. Every field is optional; missing values take the defaults of
// New.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "addr": ":8080",
//	    "readTimeout": "60s",
//	    "writeTimeout": "10s",
//	    "allowedOrigins": ["app.example.com"]
//	  },
//	  "journal": {
//	    "capacity": 256,
//	    "bucket": "memodom-journals",
//	    "prefix": "journals/"
//	  },
//	  "log": {"level": "info", "format": "json"},
//	  "metrics": {"namespace": "memodom"}
//	}
//
// The same keys are accepted in memodom.yaml.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
