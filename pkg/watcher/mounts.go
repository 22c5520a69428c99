package watcher

import (
	"bufio"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// detectRemoteMount is swappable for tests.
var detectRemoteMount = remoteMount

// remoteMount reports whether path sits on a filesystem where inotify
// events cannot be trusted (NFS, SMB, sshfs and other FUSE mounts). On
// non-Linux platforms it reports false, keeping fsnotify the default.
func remoteMount(path string) bool {
	if path == "" || runtime.GOOS != "linux" {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	f, err := os.Open("/proc/mounts")
	if err != nil {
		return false
	}
	defer f.Close()

	type mount struct {
		point  string
		fstype string
	}
	var mounts []mount
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		mounts = append(mounts, mount{point: fields[1], fstype: fields[2]})
	}
	if scanner.Err() != nil {
		return false
	}

	// Longest mount point containing the path wins.
	sort.Slice(mounts, func(i, j int) bool {
		return len(mounts[i].point) > len(mounts[j].point)
	})
	for _, m := range mounts {
		if abs == m.point || strings.HasPrefix(abs, strings.TrimSuffix(m.point, "/")+"/") {
			return remoteFSName(m.fstype)
		}
	}
	return false
}

// remoteFSName classifies a /proc/mounts filesystem name as remote.
func remoteFSName(fstype string) bool {
	switch {
	case strings.HasPrefix(fstype, "nfs"):
		return true
	case fstype == "cifs" || fstype == "smbfs" || fstype == "smb3":
		return true
	case strings.Contains(fstype, "sshfs"):
		return true
	case strings.HasPrefix(fstype, "fuse"):
		return true
	}
	return false
}
