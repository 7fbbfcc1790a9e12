/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

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
package cmd

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/notargets/gotri/logger"
)

// watchSettle is how long a file must be quiet before it is read again
var watchSettle = 250 * time.Millisecond

// watchFile calls update each time fileName is written or replaced, once the
// writes have settled, until ctx is done. The parent directory is watched so
// that files replaced by rename are still seen. Update failures are logged
// and watching continues.
func watchFile(ctx context.Context, fileName string, update func() error) (err error) {
	var (
		watcher *fsnotify.Watcher
		target  string
	)
	if target, err = filepath.Abs(fileName); err != nil {
		return
	}
	if watcher, err = fsnotify.NewWatcher(); err != nil {
		return
	}
	defer watcher.Close()
	if err = watcher.Add(filepath.Dir(target)); err != nil {
		return
	}
	settle := time.NewTimer(watchSettle)
	settle.Stop()
	defer settle.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(e.Name) != target {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				settle.Reset(watchSettle)
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watch error", zap.Error(werr))
		case <-settle.C:
			logger.Info("mesh file changed", zap.String("file", fileName))
			if uerr := update(); uerr != nil {
				logger.Error("update failed", zap.String("file", fileName), zap.Error(uerr))
			}
		}
	}
}
