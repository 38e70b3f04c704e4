// Package config provides configuration parsing for Catalyst projects.
//
// The configuration is stored in catalyst.json at the project root.
// This package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "port": 3005,
//	    "host": "0.0.0.0",
//	    "assetPrefix": "https://cdn.example.com/assets"
//	  },
//	  "assets": {
//	    "manifest": "dist/manifest.json",
//	    "category": "dist/categorized.json",
//	    "graph": "dist/graph.json",
//	    "s3": {
//	      "bucket": "my-builds",
//	      "region": "ap-south-1",
//	      "manifestKey": "v42/manifest.json",
//	      "categoryKey": "v42/categorized.json"
//	    }
//	  },
//	  "cache": {
//	    "promiseCapacity": 200,
//	    "fetchTimeout": "10s"
//	  },
//	  "static": {
//	    "dir": "public",
//	    "prefix": "/static/"
//	  },
//	  "dev": {
//	    "port": 3005,
//	    "hotReload": true,
//	    "watch": ["dist", "public"]
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Port:", cfg.Server.Port)
package config
