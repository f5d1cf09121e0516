// Package snapshot 以「整檔覆寫」方式保存 JSON 快照。
//
// 寫入流程: 同目錄暫存檔 -> fsync -> rename，
// 中途失敗時原檔保持完整，讀取端永遠看到完整的上一版或新版。
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// 自己定義常用的權限常量
const (
	// rw-r--r-- (擁有者讀寫，其他人唯讀) - 適用於大多數檔案
	FileModeReadOnly fs.FileMode = 0644

	// rw------- (只有擁有者可讀寫) - 適用於私鑰、機密檔
	FileModePrivate fs.FileMode = 0600
)

// Indent JSON 縮排，沿用舊版帳本檔案的 4 空白格式
const Indent = "    "

// Read 讀取快照檔案
//
// 回傳:
//
//	[]byte: 檔案內容
//	bool: 檔案是否存在
//	error: 讀取錯誤 (檔案不存在不算錯誤)
func Read(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// WriteJSON 將 v 編碼為縮排 JSON 後整檔覆寫 path
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", Indent)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return WriteFile(path, data, FileModeReadOnly)
}

// WriteFile 原子覆寫檔案
// 暫存檔建立在同一目錄，確保 rename 不會跨檔案系統。
// 檔案已存在時沿用原本的權限，perm 只用於新檔。
func WriteFile(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	// rename 成功後此 Remove 會回傳 not exist，忽略即可
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	// 強制刷入硬碟 (關鍵！)
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	// rename 本身記錄在目錄裡，目錄也要 fsync
	return syncDir(dir)
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}
