package prepare_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/venvx/internal/app/prepare"
	"github.com/slok/venvx/internal/exec/execmock"
	"github.com/slok/venvx/internal/log"
	"github.com/slok/venvx/internal/model"
	"github.com/slok/venvx/internal/storage/storagemock"
	"github.com/slok/venvx/internal/venv"
)

func TestNewService(t *testing.T) {
	tests := map[string]struct {
		cfg    prepare.ServiceConfig
		expErr bool
		errMsg string
	}{
		"Valid config with all fields": {
			cfg: prepare.ServiceConfig{
				Executor:   &execmock.MockExecutor{},
				Repository: &storagemock.MockRepository{},
				Logger:     log.Noop,
			},
			expErr: false,
		},
		"Valid config without logger uses Noop": {
			cfg: prepare.ServiceConfig{
				Executor:   &execmock.MockExecutor{},
				Repository: &storagemock.MockRepository{},
			},
			expErr: false,
		},
		"Missing executor returns error": {
			cfg: prepare.ServiceConfig{
				Repository: &storagemock.MockRepository{},
			},
			expErr: true,
			errMsg: "executor is required",
		},
		"Missing repository returns error": {
			cfg: prepare.ServiceConfig{
				Executor: &execmock.MockExecutor{},
			},
			expErr: true,
			errMsg: "repository is required",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			svc, err := prepare.NewService(tt.cfg)

			if tt.expErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, svc)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

type writtenFile struct {
	path    string
	content string
	perm    os.FileMode
}

func TestServiceRun(t *testing.T) {
	okResult := &model.ExecResult{ExitCode: 0}

	tests := map[string]struct {
		config        model.EnvironmentConfig
		setupMocks    func(executor *execmock.MockExecutor, repo *storagemock.MockRepository)
		expErr        bool
		expSentinel   error
		expWrites     []writtenFile
		expPythonPath string
	}{
		"Requirement list and file together should fail before any side effect": {
			config: model.EnvironmentConfig{
				Path:                 "/tmp/x",
				Requirements:         []string{"a"},
				RequirementsFilePath: "/tmp/requirements.txt",
			},
			setupMocks:  func(executor *execmock.MockExecutor, repo *storagemock.MockRepository) {},
			expErr:      true,
			expSentinel: model.ErrNotValid,
		},

		"Unknown installer should fail before any side effect": {
			config: model.EnvironmentConfig{
				Path:      "/tmp/x",
				Installer: "conda",
			},
			setupMocks:  func(executor *execmock.MockExecutor, repo *storagemock.MockRepository) {},
			expErr:      true,
			expSentinel: model.ErrNotValid,
		},

		"Default request with a requirement list should create and install": {
			config: model.EnvironmentConfig{
				Path:         "/tmp/x",
				Requirements: []string{"a", "b"},
				Installer:    model.InstallerPip,
			},
			setupMocks: func(executor *execmock.MockExecutor, repo *storagemock.MockRepository) {
				executor.On("Execute", mock.Anything, model.Command{venv.DefaultPythonBin(), "-m", "venv", "/tmp/x"}).
					Return(okResult, nil).Once()
				executor.On("Execute", mock.Anything, model.Command{"/tmp/x/bin/pip", "install", "a", "b"}).
					Return(okResult, nil).Once()
				repo.On("CreateEnvironment", mock.Anything, mock.Anything).Return(nil)
			},
			expPythonPath: "/tmp/x/bin/python",
		},

		"Explicit interpreter and system site packages should shape the create command": {
			config: model.EnvironmentConfig{
				Path:               "/tmp/x",
				PythonBin:          "/usr/bin/python3.11",
				SystemSitePackages: true,
			},
			setupMocks: func(executor *execmock.MockExecutor, repo *storagemock.MockRepository) {
				executor.On("Execute", mock.Anything, model.Command{"/usr/bin/python3.11", "-m", "venv", "/tmp/x", "--system-site-packages"}).
					Return(okResult, nil).Once()
				repo.On("CreateEnvironment", mock.Anything, mock.Anything).Return(nil)
			},
			expPythonPath: "/tmp/x/bin/python",
		},

		"A requirements file should install with -r after the install options": {
			config: model.EnvironmentConfig{
				Path:                 "/tmp/x",
				PythonBin:            "/usr/bin/python3",
				RequirementsFilePath: "/tmp/requirements.txt",
				InstallOptions:       []string{"--no-cache-dir"},
				Installer:            model.InstallerUV,
			},
			setupMocks: func(executor *execmock.MockExecutor, repo *storagemock.MockRepository) {
				executor.On("Execute", mock.Anything, model.Command{"/usr/bin/python3", "-m", "venv", "/tmp/x"}).
					Return(okResult, nil).Once()
				executor.On("Execute", mock.Anything, model.Command{"/tmp/x/bin/uv", "pip", "install", "--no-cache-dir", "-r", "/tmp/requirements.txt"}).
					Return(okResult, nil).Once()
				repo.On("CreateEnvironment", mock.Anything, mock.Anything).Return(nil)
			},
			expPythonPath: "/tmp/x/bin/python",
		},

		"An empty requirement list should skip the install stage": {
			config: model.EnvironmentConfig{
				Path:         "/tmp/x",
				PythonBin:    "/usr/bin/python3",
				Requirements: []string{},
			},
			setupMocks: func(executor *execmock.MockExecutor, repo *storagemock.MockRepository) {
				executor.On("Execute", mock.Anything, model.Command{"/usr/bin/python3", "-m", "venv", "/tmp/x"}).
					Return(okResult, nil).Once()
				repo.On("CreateEnvironment", mock.Anything, mock.Anything).Return(nil)
			},
			expPythonPath: "/tmp/x/bin/python",
		},

		"Absent index URLs should not write any index configuration": {
			config: model.EnvironmentConfig{
				Path:      "/tmp/x",
				PythonBin: "/usr/bin/python3",
			},
			setupMocks: func(executor *execmock.MockExecutor, repo *storagemock.MockRepository) {
				executor.On("Execute", mock.Anything, mock.Anything).Return(okResult, nil).Once()
				repo.On("CreateEnvironment", mock.Anything, mock.Anything).Return(nil)
			},
			expWrites:     []writtenFile{},
			expPythonPath: "/tmp/x/bin/python",
		},

		"Empty index URLs should write an explicit no-index configuration": {
			config: model.EnvironmentConfig{
				Path:      "/tmp/x",
				PythonBin: "/usr/bin/python3",
				IndexURLs: []string{},
			},
			setupMocks: func(executor *execmock.MockExecutor, repo *storagemock.MockRepository) {
				executor.On("Execute", mock.Anything, mock.Anything).Return(okResult, nil).Once()
				repo.On("CreateEnvironment", mock.Anything, mock.Anything).Return(nil)
			},
			expWrites: []writtenFile{
				{path: "/tmp/x/pip.conf", content: "[global]\nno-index = true", perm: 0644},
			},
			expPythonPath: "/tmp/x/bin/python",
		},

		"Multiple index URLs should write primary and extra indexes": {
			config: model.EnvironmentConfig{
				Path:      "/tmp/x",
				PythonBin: "/usr/bin/python3",
				IndexURLs: []string{"https://pypi.org/simple", "https://a.example/simple", "https://b.example/simple"},
			},
			setupMocks: func(executor *execmock.MockExecutor, repo *storagemock.MockRepository) {
				executor.On("Execute", mock.Anything, mock.Anything).Return(okResult, nil).Once()
				repo.On("CreateEnvironment", mock.Anything, mock.Anything).Return(nil)
			},
			expWrites: []writtenFile{
				{
					path:    "/tmp/x/pip.conf",
					content: "[global]\nindex-url = https://pypi.org/simple\nextra-index-url = https://a.example/simple https://b.example/simple",
					perm:    0644,
				},
			},
			expPythonPath: "/tmp/x/bin/python",
		},

		"A failing create command should abort with an execution error": {
			config: model.EnvironmentConfig{
				Path:         "/tmp/x",
				PythonBin:    "/usr/bin/python3",
				Requirements: []string{"a"},
			},
			setupMocks: func(executor *execmock.MockExecutor, repo *storagemock.MockRepository) {
				executor.On("Execute", mock.Anything, model.Command{"/usr/bin/python3", "-m", "venv", "/tmp/x"}).
					Return(&model.ExecResult{ExitCode: 1, CombinedOutput: "venv boom"}, nil).Once()
			},
			expErr:      true,
			expSentinel: model.ErrExecFailed,
		},

		"A failing install command should abort with an execution error": {
			config: model.EnvironmentConfig{
				Path:         "/tmp/x",
				PythonBin:    "/usr/bin/python3",
				Requirements: []string{"a"},
			},
			setupMocks: func(executor *execmock.MockExecutor, repo *storagemock.MockRepository) {
				executor.On("Execute", mock.Anything, model.Command{"/usr/bin/python3", "-m", "venv", "/tmp/x"}).
					Return(okResult, nil).Once()
				executor.On("Execute", mock.Anything, model.Command{"/tmp/x/bin/pip", "install", "a"}).
					Return(&model.ExecResult{ExitCode: 2, CombinedOutput: "pip boom"}, nil).Once()
			},
			expErr:      true,
			expSentinel: model.ErrExecFailed,
		},

		"A repository failure should surface": {
			config: model.EnvironmentConfig{
				Path:      "/tmp/x",
				PythonBin: "/usr/bin/python3",
			},
			setupMocks: func(executor *execmock.MockExecutor, repo *storagemock.MockRepository) {
				executor.On("Execute", mock.Anything, mock.Anything).Return(okResult, nil).Once()
				repo.On("CreateEnvironment", mock.Anything, mock.Anything).
					Return(errors.New("db broken"))
			},
			expErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			executor := &execmock.MockExecutor{}
			repo := &storagemock.MockRepository{}
			tt.setupMocks(executor, repo)

			var writes []writtenFile
			svc, err := prepare.NewService(prepare.ServiceConfig{
				Executor:   executor,
				Repository: repo,
				Logger:     log.Noop,
				WriteFile: func(path string, content []byte, perm os.FileMode) error {
					writes = append(writes, writtenFile{path: path, content: string(content), perm: perm})
					return nil
				},
			})
			require.NoError(t, err)

			env, err := svc.Run(context.Background(), prepare.PrepareOptions{Config: tt.config})

			if tt.expErr {
				require.Error(t, err)
				if tt.expSentinel != nil {
					assert.True(t, errors.Is(err, tt.expSentinel))
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expPythonPath, env.PythonPath)
				assert.Equal(t, tt.config.Path, env.Path)
				assert.NotEmpty(t, env.ID)
			}

			if tt.expWrites != nil {
				if len(tt.expWrites) == 0 {
					assert.Empty(t, writes)
				} else {
					assert.Equal(t, tt.expWrites, writes)
				}
			}

			executor.AssertExpectations(t)
			repo.AssertExpectations(t)
		})
	}
}

func TestServiceRunInvalidRequestHasNoSideEffects(t *testing.T) {
	executor := &execmock.MockExecutor{}
	repo := &storagemock.MockRepository{}

	var writes int
	svc, err := prepare.NewService(prepare.ServiceConfig{
		Executor:   executor,
		Repository: repo,
		Logger:     log.Noop,
		WriteFile: func(string, []byte, os.FileMode) error {
			writes++
			return nil
		},
	})
	require.NoError(t, err)

	_, err = svc.Run(context.Background(), prepare.PrepareOptions{Config: model.EnvironmentConfig{
		Path:                 "/tmp/x",
		Requirements:         []string{"a"},
		RequirementsFilePath: "/tmp/requirements.txt",
		IndexURLs:            []string{"https://pypi.org/simple"},
	}})

	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNotValid))
	assert.Zero(t, writes)
	executor.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "CreateEnvironment", mock.Anything, mock.Anything)
}
