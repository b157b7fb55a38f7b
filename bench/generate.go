package bench

import (
	"bufio"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// NewRand 고정 시드 난수 생성기. 같은 시드면 같은 벤치마크 입력이 나온다.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// RandomInts [lo, hi] 구간 균등분포 정수 n 개
func RandomInts(rng *rand.Rand, n, lo, hi int) []int {
	if hi < lo {
		lo, hi = hi, lo
	}
	data := make([]int, n)
	span := uint64(hi-lo) + 1
	for i := range data {
		data[i] = lo + int(rng.Uint64N(span))
	}
	return data
}

// WriteInts 한 줄에 하나씩 정수를 파일에 쓴다.
func WriteInts(path string, data []int) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer file.Close()

	// 64KB 버퍼
	writer := bufio.NewWriterSize(file, 64*1024)
	buf := make([]byte, 0, 24)
	for _, num := range data {
		buf = strconv.AppendInt(buf[:0], int64(num), 10)
		buf = append(buf, '\n')
		if _, err := writer.Write(buf); err != nil {
			return errors.Wrapf(err, "writing %s", path)
		}
	}
	if err := writer.Flush(); err != nil {
		return errors.Wrapf(err, "flushing %s", path)
	}
	return file.Close()
}

// ReadInts WriteInts 형식 파일 읽기. 빈 줄은 건너뛴다.
func ReadInts(path string) ([]int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer file.Close()

	// 파일 크기 기반으로 슬라이스 미리 할당 (평균 6자리 + 개행)
	var data []int
	if info, err := file.Stat(); err == nil {
		data = make([]int, 0, info.Size()/7)
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), bufio.MaxScanTokenSize)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		num, err := strconv.Atoi(text)
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%d", path, line)
		}
		data = append(data, num)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return data, nil
}
