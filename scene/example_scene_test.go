package scene_test

import (
	"fmt"

	"github.com/plus3/tween/geom"
	"github.com/plus3/tween/scene"
)

// ExampleEvaluator_EvaluateAfterEdit shows a camera mounted on the hand of
// an arm. Moving the arm directly and reporting the edit re-evaluates the
// camera, while the unrelated prop is left alone.
func ExampleEvaluator_EvaluateAfterEdit() {
	store := scene.NewEntityStore()

	camera := scene.NewEntity("camera", geom.NewCoords())
	store.Add(camera)
	store.Add(scene.NewEntity("prop", geom.NewCoordsAt(geom.NewVec3(7, 7, 7))))

	skel, _ := scene.NewSkeleton(
		scene.Joint{Name: "shoulder", Parent: -1},
		scene.Joint{Name: "hand", Parent: 0, Offset: geom.NewVec3(0, 2, 0)},
	)
	arm := scene.NewEntity("arm", geom.NewCoords())
	arm.Geometry = scene.NewSkinnedMesh(skel)
	armId := store.Add(arm)

	mount := scene.NewPositionTrack("mount", scene.NewTimecourse(scene.Linear,
		scene.Key(0.0, geom.NewVec3(0, 0, 1))))
	camera.AddTrack(mount.RelativeTo(scene.JointRef(armId, 1)))

	ev := scene.NewEvaluator(store, scene.NotifierFunc(func(_ int, e *scene.Entity) {
		fmt.Printf("%s ready at %v\n", e.Name, e.Coords.Origin)
	}))

	if _, err := ev.EvaluateAll(0); err != nil {
		fmt.Println(err)
	}

	arm.Transform().SetOrigin(geom.NewVec3(5, 0, 0))
	res, err := ev.EvaluateAfterEdit([]scene.EntityId{armId}, 0)
	if err != nil {
		fmt.Println(err)
	}
	fmt.Printf("evaluated %d, skipped %d\n", res.Evaluated, res.Skipped)

	// Output:
	// arm ready at {0 0 0}
	// camera ready at {0 2 1}
	// prop ready at {7 7 7}
	// arm ready at {5 0 0}
	// camera ready at {5 2 1}
	// prop ready at {7 7 7}
	// evaluated 1, skipped 1
}

// ExampleScene shows keyed animation driven through the Scene facade.
// Entities queued on the command buffer join the store on the next run.
func ExampleScene() {
	s := scene.NewScene(nil)

	door := scene.NewEntity("door", geom.NewCoords(),
		scene.NewPositionTrack("slide", scene.NewTimecourse(scene.Linear,
			scene.Key(0.0, geom.NewVec3(0, 0, 0)),
			scene.Key(4.0, geom.NewVec3(2, 0, 0)),
		)),
		scene.NewVisibilityTrack("open", scene.Key(0.0, scene.Flag(true)), scene.Key(3.0, scene.Flag(false))),
	)
	s.Commands().Add(door)

	for _, t := range []float64{0, 2, 4} {
		if _, err := s.SetTime(t); err != nil {
			fmt.Println(err)
			return
		}
		fmt.Printf("t=%g x=%g visible=%t\n", t, door.Coords.Origin.X, door.Visible)
	}

	// Output:
	// t=0 x=0 visible=true
	// t=2 x=1 visible=true
	// t=4 x=2 visible=false
}
