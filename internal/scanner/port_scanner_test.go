package scanner

import (
	"context"
	"net"
	"reflect"
	"testing"
	"time"

	"LazyPanda/internal/model"
)

func listen(t *testing.T) (net.Listener, int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("监听失败: %v", err)
	}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()
	return ln, ln.Addr().(*net.TCPAddr).Port
}

func closedPort(t *testing.T) int {
	t.Helper()
	ln, port := listen(t)
	ln.Close()
	return port
}

func TestScanFindsOpenPort(t *testing.T) {
	ln, open := listen(t)
	defer ln.Close()
	closed := closedPort(t)

	ps := NewPortScanner(500 * time.Millisecond)
	got := ps.Scan(context.Background(), "127.0.0.1", []int{closed, open})

	want := []model.PortFinding{{
		Port:    open,
		Service: model.ServiceName(open),
		Source:  model.SourceDirectConnect,
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Scan() = %+v, 期望 %+v", got, want)
	}
}

func TestScanNoOpenPortsIsEmpty(t *testing.T) {
	ps := NewPortScanner(200 * time.Millisecond)
	got := ps.Scan(context.Background(), "127.0.0.1", []int{closedPort(t), closedPort(t)})

	if got == nil || len(got) != 0 {
		t.Errorf("没有开放端口时应返回空切片, 实际 %#v", got)
	}
}

func TestScanOrderIsAscending(t *testing.T) {
	ln1, p1 := listen(t)
	defer ln1.Close()
	ln2, p2 := listen(t)
	defer ln2.Close()

	ps := NewPortScanner(500 * time.Millisecond)
	got := ps.Scan(context.Background(), "127.0.0.1", []int{p2, p1, p2})

	if len(got) != 2 {
		t.Fatalf("期望2个开放端口（去重后）, 实际 %d", len(got))
	}
	if got[0].Port > got[1].Port {
		t.Errorf("结果应按端口升序: %+v", got)
	}
}

func TestRemoveDuplicatesAndSort(t *testing.T) {
	got := removeDuplicatesAndSort([]int{443, 22, 0, 80, 22, 70000})
	want := []int{22, 80, 443}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("removeDuplicatesAndSort() = %v, 期望 %v", got, want)
	}
}
