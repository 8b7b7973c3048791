/*
Copyright 2017 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"k8s.io/klog/v2"

	"github.com/hubtav/tavlist/cmd/tavlist/helper"
)

//go:generate swag init -g cmd/tavlist/main.go -d ../../ -o ../../docs --parseDependency

// @title						TavList API
// @version						1.0.0
// @description					API server for TavList, stage approval and client sign-off for construction projects.
// @securityDefinitions.apikey	Bearer
// @in							header
// @name						Authorization
// @description					访问 /v1/auth/login 并获取 TOKEN 后，填入 'Bearer ${TOKEN}' 以访问受保护的接口
func main() {
	// Initialize configuration
	configInit := helper.NewConfigInitializer()
	backendConfig := configInit.GetBackendConfig()

	// Load debug environment if needed
	if err := configInit.LoadDebugEnvironment(); err != nil {
		klog.Fatalf("Failed to load env: %s", err)
	}

	// Error reporting
	flush := configInit.SetupSentry()
	defer flush()

	// Initialize register config and dependencies
	registerConfig, err := configInit.InitializeRegisterConfig()
	if err != nil {
		klog.Fatalf("Failed to register config: %s\n", err)
	}

	serverRunner := helper.NewServerRunner(backendConfig)

	// Background jobs
	if err := serverRunner.SetupCronJobs(registerConfig); err != nil {
		klog.Fatalf("Failed to set up cron jobs: %s", err)
	}

	// Start HTTP server
	serverRunner.StartServer(registerConfig)
}
