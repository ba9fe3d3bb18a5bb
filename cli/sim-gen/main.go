package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	"github.com/daniil11ru/skytrack-feeder/libs/fsuipc"
)

/*
Мост-имитатор симулятора.

Утилита слушает TCP или UDP и отвечает на запросы пакетного чтения
оффсетов кадром, собранным из параметров запуска. Позволяет проверить
фидер локально без настоящего симулятора.

Usage:
  -listen string
        Адрес прослушивания в формате <ip>:<port> (default "127.0.0.1:2048")
  -proto string
        Протокол: tcp или udp (default "tcp")
  -lat float
        Широта в градусах
  -lon float
        Долгота в градусах
  -alt float
        Высота в футах
  -hdg float
        Курс в градусах
  -ias float
        Приборная скорость в узлах
  -gs float
        Путевая скорость в узлах
  -vs float
        Вертикальная скорость в футах в минуту
  -fuel float
        Остаток топлива
  -ground
        Самолёт на земле

Example

```
./sim-gen -proto udp -listen 127.0.0.1:49000 -lat 35.553678 -lon 139.792178 -alt 36745.4 -hdg 90 -ias 280 -gs 450
```
*/

func main() {
	listen := ""
	proto := ""
	lat := 0.0
	lon := 0.0
	alt := 0.0
	hdg := 0.0
	ias := 0.0
	gs := 0.0
	vs := 0.0
	fuel := 0.0
	ground := false

	flag.StringVar(&listen, "listen", "127.0.0.1:2048", "Адрес прослушивания в формате <ip>:<port>")
	flag.StringVar(&proto, "proto", "tcp", "Протокол: tcp или udp")
	flag.Float64Var(&lat, "lat", 35.553678, "Широта в градусах")
	flag.Float64Var(&lon, "lon", 139.792178, "Долгота в градусах")
	flag.Float64Var(&alt, "alt", 36745.4, "Высота в футах")
	flag.Float64Var(&hdg, "hdg", 90, "Курс в градусах")
	flag.Float64Var(&ias, "ias", 280, "Приборная скорость в узлах")
	flag.Float64Var(&gs, "gs", 450, "Путевая скорость в узлах")
	flag.Float64Var(&vs, "vs", 0, "Вертикальная скорость в футах в минуту")
	flag.Float64Var(&fuel, "fuel", 65, "Остаток топлива")
	flag.BoolVar(&ground, "ground", false, "Самолёт на земле")

	flag.Parse()

	tel := &fsuipc.Telemetry{
		Latitude:      lat,
		Longitude:     lon,
		Altitude:      alt,
		Heading:       hdg,
		IAS:           ias,
		GroundSpeed:   gs,
		VerticalSpeed: vs,
		OnGround:      ground,
		FuelKg:        fuel,
	}
	blocks := fsuipc.Encode(tel)

	switch proto {
	case "tcp":
		serveTCP(listen, blocks)
	case "udp":
		serveUDP(listen, blocks)
	default:
		fmt.Println("Неверный протокол, используйте tcp или udp в качестве значения параметра -proto")
		os.Exit(1)
	}
}

func respond(frame []byte, blocks map[string][]byte) []byte {
	req := &fsuipc.ReadRequest{}
	resp := &fsuipc.ReadResponse{Status: fsuipc.StatusOK}

	if err := req.Decode(frame); err != nil {
		fmt.Println("Некорректный запрос: ", err)
		resp.Status = fsuipc.StatusBadRequest
	} else {
		for _, e := range req.Entries {
			off, ok := fsuipc.ByAddress(e.Address)
			if !ok || off.Width != e.Width {
				fmt.Printf("Запрошен неизвестный блок 0x%04X шириной %d\n", e.Address, e.Width)
				resp.Status = fsuipc.StatusBadRequest
				resp.Blocks = nil
				break
			}
			resp.Blocks = append(resp.Blocks, blocks[off.Name])
		}
	}

	out, err := resp.Encode()
	if err != nil {
		fmt.Println("Ошибка кодирования ответа: ", err)
		os.Exit(1)
	}
	return out
}

func serveTCP(listen string, blocks map[string][]byte) {
	ln, err := net.Listen("tcp", listen)
	if err != nil {
		fmt.Println("Ошибка прослушивания: ", err)
		os.Exit(1)
	}
	fmt.Println("Мост-имитатор слушает TCP " + listen)

	for {
		conn, err := ln.Accept()
		if err != nil {
			fmt.Println("Ошибка приёма соединения: ", err)
			continue
		}
		go func(c net.Conn) {
			defer c.Close()
			for {
				frame, err := fsuipc.ReadFrame(c)
				if err != nil {
					return
				}
				if _, err := c.Write(respond(frame, blocks)); err != nil {
					return
				}
			}
		}(conn)
	}
}

func serveUDP(listen string, blocks map[string][]byte) {
	addr, err := net.ResolveUDPAddr("udp", listen)
	if err != nil {
		fmt.Println("Ошибка преобразования адреса: ", err)
		os.Exit(1)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		fmt.Println("Ошибка прослушивания: ", err)
		os.Exit(1)
	}
	fmt.Println("Мост-имитатор слушает UDP " + listen)

	buf := make([]byte, 2048)
	for {
		n, peer, err := conn.ReadFromUDP(buf)
		if err != nil {
			fmt.Println("Ошибка чтения датаграммы: ", err)
			continue
		}
		frame := make([]byte, n)
		copy(frame, buf[:n])
		if _, err := conn.WriteToUDP(respond(frame, blocks), peer); err != nil {
			fmt.Println("Ошибка записи датаграммы: ", err)
		}
	}
}
