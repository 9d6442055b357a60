// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package client

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
)

// Interface is an alias for kubernetes.Interface so tests can pass
// fake.NewSimpleClientset().
type Interface = kubernetes.Interface

var (
	clientOnce   sync.Once
	cachedClient *kubernetes.Clientset
	cachedConfig *rest.Config
	clientErr    error
)

// GetKubeClient returns a process-wide client built with automatic
// kubeconfig discovery. The first result, including an error, is cached.
func GetKubeClient() (Interface, *rest.Config, error) {
	clientOnce.Do(func() {
		cachedClient, cachedConfig, clientErr = BuildKubeClient("")
	})
	return cachedClient, cachedConfig, clientErr
}

// GetKubeClientWithConfig builds an uncached client from an explicit
// kubeconfig path. An empty path behaves like GetKubeClient.
func GetKubeClientWithConfig(kubeconfig string) (Interface, *rest.Config, error) {
	if kubeconfig == "" {
		return GetKubeClient()
	}
	return BuildKubeClient(kubeconfig)
}

// BuildKubeClient creates a client from the given kubeconfig file. With an
// empty path it tries, in order, KUBECONFIG, ~/.kube/config and the
// in-cluster service account.
func BuildKubeClient(kubeconfig string) (*kubernetes.Clientset, *rest.Config, error) {
	config, err := restConfig(resolveKubeconfig(kubeconfig))
	if err != nil {
		return nil, nil, err
	}

	client, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}
	return client, config, nil
}

func resolveKubeconfig(kubeconfig string) string {
	if kubeconfig != "" {
		return kubeconfig
	}
	if env := os.Getenv("KUBECONFIG"); env != "" {
		return env
	}
	home := filepath.Join(homedir.HomeDir(), ".kube", "config")
	if _, err := os.Stat(home); err == nil {
		return home
	}
	return ""
}

func restConfig(kubeconfig string) (*rest.Config, error) {
	// InClusterConfig directly avoids the "Neither --kubeconfig nor --master" warning.
	if kubeconfig == "" {
		config, err := rest.InClusterConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to get in-cluster config: %w", err)
		}
		return config, nil
	}

	config, err := clientcmd.BuildConfigFromFlags("", kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to build kube config from %s: %w", kubeconfig, err)
	}
	return config, nil
}

// AuthMethod names the credential type a rest config uses, for audit logs.
func AuthMethod(config *rest.Config) string {
	switch {
	case config == nil:
		return "none"
	case config.AuthProvider != nil:
		return config.AuthProvider.Name
	case config.ExecProvider != nil:
		return "exec"
	case config.BearerToken != "" || config.BearerTokenFile != "":
		return "bearer-token"
	case config.CertData != nil || config.CertFile != "":
		return "cert"
	default:
		return "default"
	}
}
