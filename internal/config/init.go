package config

import (
	"fmt"
	"os"
)

const initTemplate = `# glueregen configuration. Relative paths resolve against this file's directory.
version: "1"

source:
  # Vendored C++ checkout (usually a git submodule).
  root: cxx_impl
  src_dir: src
  capi_dir: capi
  capi_suffix: _c.h
  implementation_extensions: [".cpp", ".mm"]
  header_extensions: [".h"]
  # Directory names skipped in addition to "examples".
  # exclude: [third_party]

refresh:
  skip: false
  remote: origin
  # branch: main
  hard_reset_on_diverge: false
  # auth:
  #   type: token
  #   token: ${GIT_TOKEN}
  retry:
    max_retries: 2
    backoff: linear
    initial_delay: 1s
    max_delay: 30s

targets:
  - name: macos-implementation
    kind: implementation
    path: macos/cnativeapi/Sources/cnativeapi/cnativeapi.mm
    platform: macos
  - name: ios-implementation
    kind: implementation
    path: ios/cnativeapi/Sources/cnativeapi/cnativeapi.mm
    platform: ios
  - name: macos-header
    kind: header
    path: macos/cnativeapi/Sources/cnativeapi/include/cnativeapi.h
  - name: ios-header
    kind: header
    path: ios/cnativeapi/Sources/cnativeapi/include/cnativeapi.h
  - name: generator-config
    kind: generator-config
    path: ffigen.yaml
    sections:
      - name: entry-points
        until: include-directives
      - name: include-directives
        until: preamble

generator:
  skip: false
  command: ["dart", "run", "ffigen", "--config", "ffigen.yaml"]
  dir: .

watch:
  debounce: 500ms
  # refresh_interval: 1h

# metrics:
#   textfile_path: /var/lib/node_exporter/textfile/glueregen.prom
`

// Init writes a documented default configuration to configPath.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, configPath)
	}
	if err := os.WriteFile(configPath, []byte(initTemplate), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
