// 压测入口：-stage a|b|c|d|e
package main

import (
	"flag"
	"fmt"
	"log"
)

func main() {
	stage := flag.String("stage", "", "压测阶段: a(参数寻优) | b(容量扩展) | c(高并发) | d(内存vs mmap) | e(持续QPS)")
	verbose := flag.Bool("verbose", false, "启用索引构建/加载的详细日志")
	flag.Parse()
	switch *stage {
	case "a":
		runStageA(*verbose)
	case "b":
		runStageB(*verbose)
	case "c":
		runStageC(*verbose)
	case "d":
		runStageD(*verbose)
	case "e":
		runStageE(*verbose)
	default:
		log.Fatalf("请指定 -stage a|b|c|d|e")
	}
	fmt.Println("压测完成")
}
